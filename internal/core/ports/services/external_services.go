package services

import "context"

// Attachment is one file attached to an outbound email.
type Attachment struct {
	Filename string
	Content  []byte
	MIMEType string
}

// Notifier is the external outbound email collaborator. Sends apply a bounded
// timeout and report failure through the returned error; callers record the
// outcome rather than propagating it.
type Notifier interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string, attachments []Attachment) error
}

// DocumentRenderer is the external PDF rendering collaborator.
type DocumentRenderer interface {
	// RenderSummary produces a printable PDF summary of a requisition.
	RenderSummary(ctx context.Context, requisitionID string) ([]byte, error)
}
