// Package pdf renders printable requisition summaries.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portsrepo "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
)

// SummaryRenderer produces a one-page PDF summary of a requisition: header
// data, line items with totals, and the stage-by-stage approval trail.
type SummaryRenderer struct {
	requisitionRepo portsrepo.RequisitionRepositoryFacade
}

// NewSummaryRenderer creates a renderer backed by the requisition repository.
func NewSummaryRenderer(requisitionRepo portsrepo.RequisitionRepositoryFacade) *SummaryRenderer {
	return &SummaryRenderer{requisitionRepo: requisitionRepo}
}

var _ portssvc.DocumentRenderer = (*SummaryRenderer)(nil)

// RenderSummary produces a printable PDF summary of a requisition.
func (r *SummaryRenderer) RenderSummary(ctx context.Context, requisitionID string) ([]byte, error) {
	req, err := r.requisitionRepo.FindRequisitionByID(ctx, requisitionID)
	if err != nil {
		return nil, err
	}
	items, err := r.requisitionRepo.FindLineItems(ctx, requisitionID)
	if err != nil {
		return nil, err
	}
	records, err := r.requisitionRepo.FindApprovalRecords(ctx, requisitionID)
	if err != nil {
		return nil, err
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Requisition "+req.Code, false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, "Material Requisition "+req.Code, "", 1, "C", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Helvetica", "", 10)
	writeField(doc, "Requester", req.RequesterName)
	writeField(doc, "Organizational unit", req.OrgUnitName)
	writeField(doc, "Submitted", req.SubmittedAt.Format("2006-01-02 15:04"))
	writeField(doc, "Status", string(req.Status))
	if req.RejectionReason != "" {
		writeField(doc, "Rejection reason", req.RejectionReason)
	}
	if req.RequesterNotes != "" {
		writeField(doc, "Notes", req.RequesterNotes)
	}
	doc.Ln(4)

	// Line item table
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(230, 230, 230)
	doc.CellFormat(70, 7, "Product", "1", 0, "L", true, 0, "")
	doc.CellFormat(25, 7, "Quantity", "1", 0, "R", true, 0, "")
	doc.CellFormat(25, 7, "Delivered", "1", 0, "R", true, 0, "")
	doc.CellFormat(30, 7, "Unit cost", "1", 0, "R", true, 0, "")
	doc.CellFormat(30, 7, "Line total", "1", 1, "R", true, 0, "")

	doc.SetFont("Helvetica", "", 10)
	for _, item := range items {
		doc.CellFormat(70, 7, item.ProductName, "1", 0, "L", false, 0, "")
		doc.CellFormat(25, 7, item.Quantity.String(), "1", 0, "R", false, 0, "")
		doc.CellFormat(25, 7, item.DeliveredQuantity.String(), "1", 0, "R", false, 0, "")
		doc.CellFormat(30, 7, item.UnitCost.StringFixed(2), "1", 0, "R", false, 0, "")
		doc.CellFormat(30, 7, item.LineTotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(150, 7, "Total", "1", 0, "R", false, 0, "")
	doc.CellFormat(30, 7, req.TotalAmount.StringFixed(2), "1", 1, "R", false, 0, "")
	doc.Ln(6)

	// Approval trail, one row per stage in workflow order
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, "Approvals", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	for _, stage := range domain.StageOrder {
		decision := domain.StageStatus(records, stage)
		line := fmt.Sprintf("%s: %s", stageTitle(stage), decision)
		if rec := latestRecordFor(records, stage); rec != nil && rec.Decision == decision {
			line += fmt.Sprintf(" by %s on %s", rec.PrincipalName, rec.DecidedAt.Format("2006-01-02 15:04"))
			if rec.Comment != "" {
				line += " (" + rec.Comment + ")"
			}
		}
		doc.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}

	if req.DeliveredAt != nil {
		doc.Ln(2)
		doc.CellFormat(0, 6, "Delivered on "+req.DeliveredAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render requisition summary: %w", err)
	}
	return buf.Bytes(), nil
}

func writeField(doc *fpdf.Fpdf, label, value string) {
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(45, 6, label+":", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func stageTitle(stage domain.ApprovalStage) string {
	switch stage {
	case domain.StageSupervisor:
		return "Immediate supervisor"
	case domain.StageAdminManager:
		return "Administrative manager"
	case domain.StageMaterialsChief:
		return "Materials services chief"
	case domain.StageWarehouseStaff:
		return "Warehouse staff"
	}
	return string(stage)
}

func latestRecordFor(records []domain.ApprovalRecord, stage domain.ApprovalStage) *domain.ApprovalRecord {
	var latest *domain.ApprovalRecord
	var latestAt time.Time
	for i := range records {
		rec := &records[i]
		if rec.Stage != stage {
			continue
		}
		if latest == nil || rec.DecidedAt.After(latestAt) {
			latest = rec
			latestAt = rec.DecidedAt
		}
	}
	return latest
}
