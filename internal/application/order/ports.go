package order

import (
	"context"
	"io"

	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
)

// FileStorage almacena adjuntos y devuelve la ruta relativa guardada.
type FileStorage interface {
	Save(file io.Reader, originalFileName string, prefix string) (filePath string, err error)
	Delete(filePath string) error
}

// Ticket datos de la hoja de producción (orden + nombres resueltos).
type Ticket struct {
	Order            *entity.ServiceOrder
	Customer         string
	ExternalCustomer string
	Operator         string
	Transport        string
}

// TicketRenderer genera el PDF de la hoja de producción.
type TicketRenderer interface {
	RenderTicket(ctx context.Context, t Ticket) ([]byte, error)
}

// ReportRow fila del reporte de órdenes.
type ReportRow struct {
	Order    *entity.ServiceOrder
	Customer string
	Operator string
}

// ReportWriter genera la planilla de órdenes.
type ReportWriter interface {
	WriteOrders(w io.Writer, rows []ReportRow) error
}

// Notifier emite alertas a un usuario (implementado por notification.UseCase).
type Notifier interface {
	Notify(ctx context.Context, userID, kind, title, message, serviceOrderID string) error
}

// Upload archivo recibido en multipart.
type Upload struct {
	Filename string
	Content  io.Reader
}

// Uploads adjuntos opcionales de una orden. Un campo nil conserva el archivo actual.
type Uploads struct {
	File             *Upload
	PrintSheet       *Upload
	DieCutBlockSheet *Upload
}
