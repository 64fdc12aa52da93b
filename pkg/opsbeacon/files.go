package opsbeacon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
)

// FileUpload describes one of two upload modes: in-memory Content with a
// required FileName, or a local Path whose existence is checked before any
// network call. Exactly one mode must be supplied.
type FileUpload struct {
	// Content is the file body for in-memory uploads. Non-nil selects the
	// in-memory mode, even when empty.
	Content []byte

	// FileName names the uploaded file. Required with Content; with Path it
	// optionally overrides the local file's base name.
	FileName string

	// Path is a local file to upload.
	Path string
}

// FileUpload uploads a file to the workspace and returns the raw response
// text.
func (c *Client) FileUpload(ctx context.Context, up FileUpload) (string, error) {
	var fileName, mimeType string
	var content []byte

	switch {
	case up.Content != nil && up.Path != "":
		return "", &ValidationError{Message: "either Content or Path must be provided, not both"}
	case up.Content != nil:
		if up.FileName == "" {
			return "", &ValidationError{Field: "FileName", Message: "file name is required when uploading content"}
		}
		fileName = up.FileName
		mimeType = "text/csv"
		content = up.Content
	case up.Path != "":
		data, err := os.ReadFile(up.Path)
		if err != nil {
			if os.IsNotExist(err) {
				return "", &FileOperationError{FileName: up.Path, Op: "upload", Message: "file not found"}
			}
			return "", &FileOperationError{FileName: up.Path, Op: "upload", Err: err}
		}
		fileName = up.FileName
		if fileName == "" {
			fileName = filepath.Base(up.Path)
		}
		mimeType = "application/octet-stream"
		content = data
	default:
		return "", &ValidationError{Message: "either Content or Path must be provided"}
	}

	respBody, err := c.doMultipart(ctx, "/workspace/v2/files", fileName, mimeType, content,
		map[string]string{"filename": fileName})
	if err != nil {
		if isAPIFailure(err) {
			return "", &FileOperationError{FileName: fileName, Op: "upload", Err: err}
		}
		return "", err
	}
	return string(respBody), nil
}

// FileDownloadURL fetches a short-lived signed download URL for a file. The
// URL is transient and not cached.
func (c *Client) FileDownloadURL(ctx context.Context, fileID string) (string, error) {
	if fileID == "" {
		return "", &ValidationError{Field: "fileID", Message: "file id is required"}
	}

	var out struct {
		Success bool   `json:"success"`
		URL     string `json:"url"`
		Err     string `json:"err"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/workspace/v2/file-url/"+url.PathEscape(fileID), nil, &out); err != nil {
		return "", err
	}
	if !out.Success {
		msg := out.Err
		if msg == "" {
			msg = "unknown error"
		}
		return "", &FileOperationError{FileName: fileID, Op: "get_download_url", Message: msg}
	}
	return out.URL, nil
}

// FileDownload fetches a file by name and writes it to destPath, which
// defaults to the file name in the current directory. The signed URL is
// fetched with unauthenticated access; any failure in the fetch-and-write
// sequence is reported as a download file-operation error.
func (c *Client) FileDownload(ctx context.Context, fileName, destPath string) error {
	if fileName == "" {
		return &ValidationError{Field: "fileName", Message: "file name is required"}
	}

	downloadURL, err := c.FileDownloadURL(ctx, fileName)
	if err != nil {
		return err
	}
	if destPath == "" {
		destPath = fileName
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return &FileOperationError{FileName: fileName, Op: "download", Err: err}
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return &FileOperationError{FileName: fileName, Op: "download", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &FileOperationError{
			FileName: fileName,
			Op:       "download",
			Message:  fmt.Sprintf("download returned status %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FileOperationError{FileName: fileName, Op: "download", Err: err}
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return &FileOperationError{FileName: fileName, Op: "download", Err: err}
	}
	return nil
}
