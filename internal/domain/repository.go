package domain

import "context"

// CredentialProvider hands out a valid credential for the duration of one request
type CredentialProvider interface {
	Acquire(ctx context.Context) (*Credential, error)
}

// DocumentStore defines the calls made against Google Drive, Sheets and Docs.
// Every call takes the credential explicitly; implementations keep no token state.
type DocumentStore interface {
	ListFiles(ctx context.Context, cred *Credential, folderID string) ([]FileDescriptor, error)
	GetFile(ctx context.Context, cred *Credential, fileID string) (*FileDescriptor, error)
	ListSheets(ctx context.Context, cred *Credential, spreadsheetID string) ([]SheetProperties, error)
	ReadRange(ctx context.Context, cred *Credential, spreadsheetID, rangeSpec string) ([][]string, error)
	ReadDocumentText(ctx context.Context, cred *Credential, documentID string) (string, error)
	DownloadFile(ctx context.Context, cred *Credential, fileID string) ([]byte, error)
}

// WorkbookParser turns a downloaded workbook file into raw sheets
type WorkbookParser interface {
	Parse(data []byte) ([]RawSheet, error)
}
