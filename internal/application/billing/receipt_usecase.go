// Package billing arma el recibo PDF de ventas y compras completadas.
package billing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// ReceiptUseCase genera el PDF de una venta o de una compra completada.
type ReceiptUseCase struct {
	saleRepo     repository.SaleRepository
	purchaseRepo repository.PurchaseRepository
	sedeRepo     repository.SedeRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	generator    ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
	sedeRepo repository.SedeRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	generator ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		sedeRepo:     sedeRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		generator:    generator,
	}
}

// Download genera el PDF del documento.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si el documento no existe.
//   - domain.ErrInvalidInput     si kind es desconocido o la compra no está completada.
func (uc *ReceiptUseCase) Download(ctx context.Context, kind, documentID string) (pdfBytes []byte, filename string, err error) {
	var r *Receipt
	switch kind {
	case inventory.InvoiceKindSale:
		r, err = uc.saleReceipt(ctx, documentID)
	case inventory.InvoiceKindPurchase:
		r, err = uc.purchaseReceipt(ctx, documentID)
	default:
		return nil, "", domain.NewValidationError("kind", "oneof=venta compra")
	}
	if err != nil {
		return nil, "", err
	}

	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, r)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("%s_%s.pdf", kind, documentID), nil
}

func (uc *ReceiptUseCase) saleReceipt(ctx context.Context, id string) (*Receipt, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	details, err := uc.saleRepo.GetDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener detalles: %w", err)
	}
	r := &Receipt{
		Kind:       inventory.InvoiceKindSale,
		DocumentID: sale.ID,
		Date:       sale.CreatedAt,
		UserID:     sale.UserID,
		Total:      sale.Total,
	}
	if err := uc.fillSede(ctx, r, sale.SedeID); err != nil {
		return nil, err
	}
	for _, d := range details {
		r.Lines = append(r.Lines, uc.line(ctx, d.ProductID, d.Quantity, d.UnitPrice, d.Subtotal))
	}
	return r, nil
}

func (uc *ReceiptUseCase) purchaseReceipt(ctx context.Context, id string) (*Receipt, error) {
	p, err := uc.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener compra: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.State != entity.PurchaseCompletada {
		return nil, fmt.Errorf("%w: la compra está %s, solo las completadas tienen recibo", domain.ErrInvalidInput, p.State)
	}
	details, err := uc.purchaseRepo.GetDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener detalles: %w", err)
	}
	r := &Receipt{
		Kind:       inventory.InvoiceKindPurchase,
		DocumentID: p.ID,
		Date:       p.UpdatedAt,
		UserID:     p.UserID,
		Total:      p.Total,
	}
	if err := uc.fillSede(ctx, r, p.SedeID); err != nil {
		return nil, err
	}
	if supplier, sErr := uc.supplierRepo.GetByID(ctx, p.SupplierID); sErr == nil && supplier != nil {
		r.Counterparty = supplier.Name + " (" + supplier.TaxID + ")"
	}
	for _, d := range details {
		r.Lines = append(r.Lines, uc.line(ctx, d.ProductID, d.Quantity, d.UnitPrice, d.Subtotal))
	}
	return r, nil
}

func (uc *ReceiptUseCase) fillSede(ctx context.Context, r *Receipt, sedeID string) error {
	sede, err := uc.sedeRepo.GetByID(ctx, sedeID)
	if err != nil {
		return fmt.Errorf("pdf: obtener sede %s: %w", sedeID, err)
	}
	if sede == nil {
		return fmt.Errorf("%w: sede %s", domain.ErrNotFound, sedeID)
	}
	r.SedeName, r.SedeAddress = sede.Name, sede.Address
	return nil
}

func (uc *ReceiptUseCase) line(ctx context.Context, productID string, qty int64, unit, subtotal decimal.Decimal) ReceiptLine {
	l := ReceiptLine{
		ProductName: "Producto " + productID, // fallback
		Quantity:    qty,
		UnitPrice:   unit,
		Subtotal:    subtotal,
	}
	if product, err := uc.productRepo.GetByID(ctx, productID); err == nil && product != nil {
		l.ProductName, l.SKU = product.Name, product.SKU
	}
	return l
}
