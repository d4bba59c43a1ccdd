package models

import "time"

// AttachmentDescriptor points at one stored blob.
// RequiresSignedURL is decided when the object is written and is the only
// input the delivery layer uses to decide whether to sign.
type AttachmentDescriptor struct {
	StorageID         string    `json:"storage_id"`
	RetrievalURL      string    `json:"retrieval_url"`
	OriginalFilename  string    `json:"original_filename"`
	SizeBytes         int64     `json:"size_bytes"`
	ContentType       string    `json:"content_type"`
	UploadedAt        time.Time `json:"uploaded_at"`
	RequiresSignedURL bool      `json:"requires_signed_url"`
}

// ApplicationDocuments holds the two attachment slots of an application.
type ApplicationDocuments struct {
	Resume      *AttachmentDescriptor `json:"resume,omitempty"`
	CoverLetter *AttachmentDescriptor `json:"cover_letter,omitempty"`
}

func (d ApplicationDocuments) Get(kind DocumentKind) *AttachmentDescriptor {
	switch kind {
	case DocumentResume:
		return d.Resume
	case DocumentCoverLetter:
		return d.CoverLetter
	}
	return nil
}

// All returns the filled slots.
func (d ApplicationDocuments) All() []AttachmentDescriptor {
	var out []AttachmentDescriptor
	if d.Resume != nil {
		out = append(out, *d.Resume)
	}
	if d.CoverLetter != nil {
		out = append(out, *d.CoverLetter)
	}
	return out
}
