package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clicheria-api/internal/application/order"
	"github.com/jhoicas/Clicheria-api/internal/domain"
)

// Campos multipart de los adjuntos de la orden.
const (
	fieldFile             = "file"
	fieldPrintSheet       = "printSheet"
	fieldDieCutBlockSheet = "dieCutBlockSheet"
)

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

// readUploads abre los adjuntos presentes en el multipart. El llamador debe
// invocar close al terminar. Un campo ausente queda nil (conserva el actual).
func readUploads(c *fiber.Ctx, maxBytes int64) (order.Uploads, func(), error) {
	var (
		out     order.Uploads
		closers []io.Closer
	)
	closeAll := func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}
	if !isMultipart(c) {
		return out, closeAll, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return out, closeAll, fmt.Errorf("leer multipart: %w", domain.ErrInvalidInput)
	}

	verr := domain.NewValidationError()
	open := func(field string) *order.Upload {
		headers := form.File[field]
		if len(headers) == 0 {
			return nil
		}
		fh := headers[0]
		if maxBytes > 0 && fh.Size > maxBytes {
			verr.Add(field, fmt.Sprintf("el archivo supera %d MB", maxBytes/(1<<20)))
			return nil
		}
		f, err := fh.Open()
		if err != nil {
			verr.Add(field, "no se pudo leer el archivo")
			return nil
		}
		closers = append(closers, f)
		return &order.Upload{Filename: fh.Filename, Content: f}
	}
	out.File = open(fieldFile)
	out.PrintSheet = open(fieldPrintSheet)
	out.DieCutBlockSheet = open(fieldDieCutBlockSheet)

	if err := verr.OrNil(); err != nil {
		closeAll()
		return order.Uploads{}, func() {}, err
	}
	return out, closeAll, nil
}

// formValue devuelve el primer valor del campo multipart o "".
func formValue(form *multipart.Form, key string) string {
	if form == nil || len(form.Value[key]) == 0 {
		return ""
	}
	return form.Value[key][0]
}
