package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

const notifyTimeout = 5 * time.Second

// Dispatch envía las notificaciones en segundo plano después del commit.
// Los errores solo se registran: nunca afectan la operación que las originó.
func Dispatch(ctx context.Context, log *logger.Logger, notifier Notifier, notifications ...Notification) {
	if notifier == nil || len(notifications) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		for _, n := range notifications {
			nctx, cancel := context.WithTimeout(ctx, notifyTimeout)
			if err := notifier.Notify(nctx, n); err != nil {
				log.Warn().Err(err).
					Str("category", n.Category).
					Str("sede_id", n.SedeID).
					Msg("notificación no enviada")
			}
			cancel()
		}
	}()
}

// RequestInvoice solicita la factura del documento; un fallo solo se registra.
func RequestInvoice(ctx context.Context, log *logger.Logger, invoices InvoiceRequester, kind, documentID string) {
	if invoices == nil {
		return
	}
	if err := invoices.RequestInvoice(context.WithoutCancel(ctx), kind, documentID); err != nil {
		log.Warn().Err(err).Str("kind", kind).Str("document_id", documentID).Msg("solicitud de factura fallida")
	}
}
