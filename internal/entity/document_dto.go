package entity

import "mime/multipart"

type UploadDocumentRequest struct {
	OwnerID  string
	Category string
	File     *multipart.FileHeader
}

type UploadResponse struct {
	Message string `json:"message"`
	DocID   string `json:"doc_id"`
}

type DocumentResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Category string `json:"category"`
}
