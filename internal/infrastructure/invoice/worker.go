// Package invoice genera en segundo plano los recibos PDF de documentos confirmados.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bsm/redislock"

	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/pkg/config"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

// ErrQueueFull la cola del generador está llena; la solicitud se descarta.
var ErrQueueFull = errors.New("cola de facturas llena")

// ErrStopped el generador ya fue detenido.
var ErrStopped = errors.New("generador de facturas detenido")

var _ inventory.InvoiceRequester = (*Worker)(nil)

// Renderer produce el PDF de un documento (billing.ReceiptUseCase).
type Renderer interface {
	Download(ctx context.Context, kind, documentID string) ([]byte, string, error)
}

type job struct {
	kind       string
	documentID string
}

// Worker implementa inventory.InvoiceRequester con una cola en memoria y un único consumidor.
// Con Redis, un lock por documento evita que dos instancias generen el mismo archivo.
type Worker struct {
	renderer Renderer
	locker   *redislock.Client
	outDir   string
	lockTTL  time.Duration
	log      *logger.Logger

	queue   chan job
	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// NewWorker construye el generador. locker puede ser nil (sin Redis).
func NewWorker(renderer Renderer, locker *redislock.Client, cfg config.InvoiceConfig, log *logger.Logger) *Worker {
	size := cfg.QueueSize
	if size <= 0 {
		size = 64
	}
	ttl := time.Duration(cfg.LockSeconds) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Worker{
		renderer: renderer,
		locker:   locker,
		outDir:   cfg.OutputDir,
		lockTTL:  ttl,
		log:      log,
		queue:    make(chan job, size),
	}
}

// Start lanza el consumidor. Termina al llamar Stop (drena la cola) o al cancelar ctx.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case j, ok := <-w.queue:
				if !ok {
					return
				}
				w.process(ctx, j)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop cierra la cola y espera a que se procesen las solicitudes pendientes.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.queue)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

// RequestInvoice encola la solicitud sin bloquear.
func (w *Worker) RequestInvoice(_ context.Context, kind, documentID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return ErrStopped
	}
	select {
	case w.queue <- job{kind: kind, documentID: documentID}:
		return nil
	default:
		return fmt.Errorf("%w: %s %s", ErrQueueFull, kind, documentID)
	}
}

// Path devuelve la ruta del PDF generado para el documento.
func (w *Worker) Path(kind, documentID string) string {
	return filepath.Join(w.outDir, fmt.Sprintf("%s_%s.pdf", kind, documentID))
}

func (w *Worker) process(ctx context.Context, j job) {
	log := w.log.With().Str("kind", j.kind).Str("document_id", j.documentID).Logger()

	if w.locker != nil {
		lock, err := w.locker.Obtain(ctx, "invoice:"+j.kind+":"+j.documentID, w.lockTTL, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			log.Debug().Msg("factura en proceso en otra instancia")
			return
		}
		if err != nil {
			log.Warn().Err(err).Msg("no se pudo obtener el lock de factura")
			return
		}
		defer func() { _ = lock.Release(context.WithoutCancel(ctx)) }()
	}

	path := w.Path(j.kind, j.documentID)
	if _, err := os.Stat(path); err == nil {
		return
	}

	pdf, _, err := w.renderer.Download(ctx, j.kind, j.documentID)
	if err != nil {
		log.Error().Err(err).Msg("generación de factura fallida")
		return
	}
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		log.Error().Err(err).Msg("crear directorio de facturas")
		return
	}
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		log.Error().Err(err).Msg("guardar factura")
		return
	}
	log.Info().Str("path", path).Msg("factura generada")
}
