package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
)

// ListDocuments returns the uploaded knowledge-base documents.
func (c *Client) ListDocuments(ctx context.Context, cred *domain.Credential) ([]domain.UserDocument, error) {
	var env dataEnvelope
	if err := c.do(ctx, call{ep: epListDocuments, cred: cred, out: &env}); err != nil {
		return nil, err
	}
	docs, err := many[domain.UserDocument](env.Data)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "backend/" + epListDocuments.name, Err: err}
	}
	return docs, nil
}

// UploadDocument sends one PDF as multipart field "file".
func (c *Client) UploadDocument(ctx context.Context, cred *domain.Credential, up domain.Upload) (domain.UserDocument, error) {
	body, contentType, err := encodeUpload(up)
	if err != nil {
		return domain.UserDocument{}, err
	}

	var env dataEnvelope
	err = c.do(ctx, call{ep: epUploadDocument, cred: cred, raw: body, rawType: contentType, out: &env})
	if err != nil {
		return domain.UserDocument{}, err
	}
	doc, err := one[domain.UserDocument](env.Data)
	if err != nil {
		return domain.UserDocument{}, &domain.ErrExternalService{Service: "backend/" + epUploadDocument.name, Err: err}
	}
	return doc, nil
}

// DeleteDocument removes an uploaded document.
func (c *Client) DeleteDocument(ctx context.Context, cred *domain.Credential, id string) error {
	return c.do(ctx, call{ep: epDeleteDocument, cred: cred, args: []any{url.PathEscape(id)}})
}

func encodeUpload(up domain.Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, up.FileName))
	h.Set("Content-Type", domain.PDFContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if up.Body != nil {
		if _, err := io.Copy(part, up.Body); err != nil {
			return nil, "", fmt.Errorf("read upload %s: %w", up.FileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
