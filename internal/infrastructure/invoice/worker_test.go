package invoice

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/pkg/config"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

type fakeRenderer struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeRenderer) Download(_ context.Context, kind, documentID string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, kind+":"+documentID)
	if f.err != nil {
		return nil, "", f.err
	}
	return []byte("%PDF-fake"), kind + "_" + documentID + ".pdf", nil
}

func TestWorker_GeneratesFile(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRenderer{}
	w := NewWorker(r, nil, config.InvoiceConfig{OutputDir: dir, QueueSize: 4}, logger.Nop())
	w.Start(context.Background())

	require.NoError(t, w.RequestInvoice(context.Background(), inventory.InvoiceKindSale, "v1"))
	// Segunda solicitud del mismo documento: el archivo ya existe y no se regenera.
	require.NoError(t, w.RequestInvoice(context.Background(), inventory.InvoiceKindSale, "v1"))
	w.Stop()

	content, err := os.ReadFile(w.Path(inventory.InvoiceKindSale, "v1"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(content))
	assert.Equal(t, []string{"venta:v1"}, r.calls)
}

func TestWorker_RendererErrorIsLogged(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRenderer{err: errors.New("boom")}
	w := NewWorker(r, nil, config.InvoiceConfig{OutputDir: dir}, logger.Nop())
	w.Start(context.Background())

	require.NoError(t, w.RequestInvoice(context.Background(), inventory.InvoiceKindPurchase, "c1"))
	w.Stop()

	_, err := os.Stat(w.Path(inventory.InvoiceKindPurchase, "c1"))
	assert.True(t, os.IsNotExist(err))
}

func TestWorker_QueueFullAndStopped(t *testing.T) {
	w := NewWorker(&fakeRenderer{}, nil, config.InvoiceConfig{OutputDir: t.TempDir(), QueueSize: 1}, logger.Nop())

	require.NoError(t, w.RequestInvoice(context.Background(), inventory.InvoiceKindSale, "a"))
	err := w.RequestInvoice(context.Background(), inventory.InvoiceKindSale, "b")
	assert.ErrorIs(t, err, ErrQueueFull)

	w.Stop()
	assert.ErrorIs(t, w.RequestInvoice(context.Background(), inventory.InvoiceKindSale, "c"), ErrStopped)
}
