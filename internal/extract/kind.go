package extract

import "strings"

// Kind tags which extraction strategy applies to an upload.
type Kind int

const (
	KindNone Kind = iota
	KindImage
	KindDOCX
	KindPDF
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindDOCX:
		return "docx"
	case KindPDF:
		return "pdf"
	case KindText:
		return "text"
	default:
		return "none"
	}
}

// Classify decides which strategy applies from the declared MIME type and the
// filename extension, first match wins. Browsers report inconsistent MIME
// types for the same logical format across OS/browser combinations, so the
// extension is a real fallback signal, not redundancy.
func Classify(declaredType, fileName string) Kind {
	mt := strings.ToLower(strings.TrimSpace(declaredType))
	name := strings.ToLower(strings.TrimSpace(fileName))

	switch {
	case strings.HasPrefix(mt, "image/"):
		return KindImage
	case strings.Contains(mt, "wordprocessingml") || strings.HasSuffix(name, ".docx"):
		return KindDOCX
	case mt == "application/pdf" || strings.HasSuffix(name, ".pdf"):
		return KindPDF
	case strings.HasPrefix(mt, "text/") || strings.HasSuffix(name, ".txt"):
		return KindText
	default:
		return KindNone
	}
}
