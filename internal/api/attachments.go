package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"helpdesk-cli/internal/model"
)

func (c *Client) ListAttachments(ctx context.Context, ticketID string) ([]model.Attachment, error) {
	var out model.Page[model.Attachment]
	if err := c.get(ctx, "/tickets/"+escape(ticketID)+"/attachments", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// UploadAttachment sends r as a multipart "file" part.
func (c *Client) UploadAttachment(ctx context.Context, ticketID, fileName, contentType string, r io.Reader) (model.Attachment, error) {
	fileName = filepath.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." {
		return model.Attachment{}, model.FieldErrors{"file": "required"}
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return model.Attachment{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return model.Attachment{}, fmt.Errorf("read %s: %w", fileName, err)
	}
	if err := mw.Close(); err != nil {
		return model.Attachment{}, err
	}

	var out model.Attachment
	err = c.send(ctx, http.MethodPost, "/tickets/"+escape(ticketID)+"/attachments", nil, &buf, mw.FormDataContentType(), &out)
	return out, err
}

// AttachmentURL asks the API for a presigned download link.
func (c *Client) AttachmentURL(ctx context.Context, id string) (model.AttachmentURL, error) {
	var out model.AttachmentURL
	err := c.get(ctx, "/attachments/"+escape(id)+"/url", nil, &out)
	return out, err
}

func (c *Client) DeleteAttachment(ctx context.Context, id string) error {
	return c.delete(ctx, "/attachments/"+escape(id))
}
