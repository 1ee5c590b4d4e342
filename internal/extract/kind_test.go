package extract

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name         string
		declaredType string
		fileName     string
		want         Kind
	}{
		{name: "png_by_mime", declaredType: "image/png", fileName: "foto.png", want: KindImage},
		{name: "jpeg_no_extension", declaredType: "image/jpeg", fileName: "captura", want: KindImage},
		{name: "image_mime_uppercase", declaredType: "IMAGE/PNG", fileName: "FOTO.PNG", want: KindImage},
		{name: "docx_by_mime", declaredType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", fileName: "tarea", want: KindDOCX},
		{name: "docx_by_extension_only", declaredType: "application/octet-stream", fileName: "tarea.docx", want: KindDOCX},
		{name: "docx_extension_uppercase", declaredType: "", fileName: "Tarea.DOCX", want: KindDOCX},
		{name: "pdf_by_mime", declaredType: "application/pdf", fileName: "apuntes", want: KindPDF},
		{name: "pdf_by_extension_only", declaredType: "application/octet-stream", fileName: "apuntes.pdf", want: KindPDF},
		{name: "txt_by_mime", declaredType: "text/plain", fileName: "notas", want: KindText},
		{name: "markdown_mime_is_text", declaredType: "text/markdown", fileName: "notas.md", want: KindText},
		{name: "txt_by_extension_only", declaredType: "", fileName: "notas.txt", want: KindText},
		{name: "unknown_binary", declaredType: "application/octet-stream", fileName: "programa.exe", want: KindNone},
		{name: "empty_inputs", declaredType: "", fileName: "", want: KindNone},
		{name: "zip_archive", declaredType: "application/zip", fileName: "fotos.zip", want: KindNone},
		// image/ wins over a .pdf extension: checks run in order, first match.
		{name: "image_mime_beats_pdf_extension", declaredType: "image/png", fileName: "escaneo.pdf", want: KindImage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.declaredType, tc.fileName)
			if got != tc.want {
				t.Fatalf("Classify(%q, %q)=%v, want %v", tc.declaredType, tc.fileName, got, tc.want)
			}
		})
	}
}
