package google

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/prathamesh1010/Paras-Wires/internal/domain"
)

// Wire types for the subset of the Drive, Sheets and Docs responses we read

type driveFileList struct {
	Files         []driveFile `json:"files"`
	NextPageToken string      `json:"nextPageToken"`
}

type driveFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime"`
}

type spreadsheetMetadata struct {
	Sheets []struct {
		Properties struct {
			SheetID int64  `json:"sheetId"`
			Title   string `json:"title"`
		} `json:"properties"`
	} `json:"sheets"`
}

type valueRange struct {
	Range  string          `json:"range"`
	Values [][]interface{} `json:"values"`
}

type document struct {
	Title string `json:"title"`
	Body  struct {
		Content []structuralElement `json:"content"`
	} `json:"body"`
}

type structuralElement struct {
	Paragraph *paragraph `json:"paragraph"`
}

type paragraph struct {
	Elements []paragraphElement `json:"elements"`
}

type paragraphElement struct {
	TextRun *textRun `json:"textRun"`
}

type textRun struct {
	Content string `json:"content"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// mapFiles converts a Drive listing, skipping entries without id, name or mime type
func mapFiles(files []driveFile) []domain.FileDescriptor {
	out := make([]domain.FileDescriptor, 0, len(files))
	for _, f := range files {
		if file, ok := mapFile(f); ok {
			out = append(out, file)
		}
	}
	return out
}

func mapFile(f driveFile) (domain.FileDescriptor, bool) {
	if f.ID == "" || f.Name == "" || f.MimeType == "" {
		return domain.FileDescriptor{}, false
	}
	return domain.FileDescriptor{
		ID:           f.ID,
		Name:         f.Name,
		MimeType:     f.MimeType,
		ModifiedTime: f.ModifiedTime,
	}, true
}

func mapSheetProperties(meta spreadsheetMetadata) []domain.SheetProperties {
	out := make([]domain.SheetProperties, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		out = append(out, domain.SheetProperties{
			SheetID: s.Properties.SheetID,
			Title:   s.Properties.Title,
		})
	}
	return out
}

// mapValues stringifies a grid of JSON cell values
func mapValues(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellString(v)
		}
		out[i] = cells
	}
	return out
}

func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// documentText concatenates the text runs of every body paragraph in order
func documentText(doc document) string {
	var b strings.Builder
	for _, el := range doc.Body.Content {
		if el.Paragraph == nil {
			continue
		}
		for _, pe := range el.Paragraph.Elements {
			if pe.TextRun != nil {
				b.WriteString(pe.TextRun.Content)
			}
		}
	}
	return b.String()
}

// apiErrorMessage extracts the message of a Google JSON error body, if any
func apiErrorMessage(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.Error.Message
}
