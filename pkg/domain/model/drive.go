package model

import "strings"

const (
	MimeTypeFolder       = "application/vnd.google-apps.folder"
	MimeTypeDocument     = "application/vnd.google-apps.document"
	MimeTypeSpreadsheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypePresentation = "application/vnd.google-apps.presentation"

	nativeMimeTypePrefix = "application/vnd.google-apps"
)

// DriveFile is a resolved Drive node. Size is the declared size, 0 when Drive
// does not report one.
type DriveFile struct {
	ID       string
	Name     string
	MimeType string
	Size     int64
}

// IsFolder reports whether the node is a Drive folder.
func (f *DriveFile) IsFolder() bool {
	return f.MimeType == MimeTypeFolder
}

// IsNative reports whether the node is a Google-native document that has no
// binary representation and must be exported.
func (f *DriveFile) IsNative() bool {
	return strings.HasPrefix(f.MimeType, nativeMimeTypePrefix)
}

// ExportFormat is the target of a native document export.
type ExportFormat struct {
	MimeType  string
	Extension string
}

var (
	ExportPDF  = ExportFormat{MimeType: "application/pdf", Extension: "pdf"}
	ExportXLSX = ExportFormat{MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Extension: "xlsx"}
	ExportPPTX = ExportFormat{MimeType: "application/vnd.openxmlformats-officedocument.presentationml.presentation", Extension: "pptx"}
)

// ExportFormatFor picks the export target for a native mime type. Anything
// other than documents, spreadsheets and presentations is exported as PDF.
func ExportFormatFor(mimeType string) ExportFormat {
	switch mimeType {
	case MimeTypeSpreadsheet:
		return ExportXLSX
	case MimeTypePresentation:
		return ExportPPTX
	default:
		return ExportPDF
	}
}
