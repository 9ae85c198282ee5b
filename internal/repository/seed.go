package repository

import (
	"context"
	"time"

	"github.com/xiaot623/gogo/assistant/internal/domain"
)

// Sample identities used by the seeded data.
const (
	SampleTenantID   = "7"
	SampleLandlordID = "3"
	SamplePropertyID = "101"
)

// seed inserts a small sample portfolio. Fixed ids make it idempotent.
func (s *SQLiteStore) seed(ctx context.Context) error {
	base := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

	docs := []domain.Document{
		{
			ID: "doc_lease101", Name: "Lease Agreement - Unit 101.pdf", URL: "/files/leases/101.pdf",
			Type: domain.DocumentTypeAgreement, OwnerID: SampleLandlordID, OwnerRole: domain.RoleLandlord,
			PropertyID: SamplePropertyID, TenantID: SampleTenantID, LandlordID: SampleLandlordID,
			UploadedAt: base,
		},
		{
			ID: "doc_rcpt0201", Name: "Rent receipt February.pdf", URL: "/files/receipts/101-02.pdf",
			Type: domain.DocumentTypeReceipt, OwnerID: SampleTenantID, OwnerRole: domain.RoleTenant,
			PropertyID: SamplePropertyID, TenantID: SampleTenantID, LandlordID: SampleLandlordID,
			UploadedAt: base.AddDate(0, 1, 0),
		},
		{
			ID: "doc_insp101", Name: "Move-in inspection report.pdf", URL: "/files/reports/101-inspection.pdf",
			Type: domain.DocumentTypeReport, OwnerID: SampleLandlordID, OwnerRole: domain.RoleLandlord,
			PropertyID: SamplePropertyID, LandlordID: SampleLandlordID,
			UploadedAt: base.AddDate(0, 0, -3),
		},
		{
			ID: "img_101kitch", Name: "Kitchen.jpg", URL: "/files/images/101-kitchen.jpg",
			Type: domain.DocumentTypeImage, OwnerID: SampleLandlordID, OwnerRole: domain.RoleLandlord,
			PropertyID: SamplePropertyID, LandlordID: SampleLandlordID,
			UploadedAt: base.AddDate(0, 0, -10),
		},
		{
			ID: "img_101bath", Name: "Bathroom.jpg", URL: "/files/images/101-bathroom.jpg",
			Type: domain.DocumentTypeImage, OwnerID: SampleTenantID, OwnerRole: domain.RoleTenant,
			PropertyID: SamplePropertyID, LandlordID: SampleLandlordID,
			UploadedAt: base.AddDate(0, 2, 0),
		},
	}
	for i := range docs {
		if err := s.CreateDocument(ctx, &docs[i]); err != nil {
			return err
		}
	}

	tickets := []domain.Ticket{
		{
			ID: "tkt_seed0001", Title: "Leaking kitchen tap", Description: "The kitchen tap drips constantly.",
			Category: domain.CategoryPlumbing, Priority: domain.PriorityMedium, Status: domain.TicketStatusInProgress,
			TenantID: SampleTenantID, PropertyID: SamplePropertyID, CreatedAt: base.AddDate(0, 1, 5),
		},
		{
			ID: "tkt_seed0002", Title: "Hallway light flickers", Description: "The hallway ceiling light flickers at night.",
			Category: domain.CategoryElectrical, Priority: domain.PriorityLow, Status: domain.TicketStatusResolved,
			TenantID: SampleTenantID, PropertyID: SamplePropertyID, CreatedAt: base.AddDate(0, 0, 20),
		},
	}
	for i := range tickets {
		if err := s.insertTicket(ctx, &tickets[i]); err != nil {
			return err
		}
	}
	return nil
}
