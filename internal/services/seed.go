package services

import (
	"time"

	"github.com/yukikurage/agency-project-tracker/internal/models"
)

// Demo account identifiers. They are fixed so the seeded projects can reference them.
const (
	SeedSalesID      = "6f1c1a52-0001-4a3e-9c1e-5a1e5a1e0001"
	SeedReviewerID   = "6f1c1a52-0002-4a3e-9c1e-5a1e5a1e0002"
	SeedDeveloper1ID = "6f1c1a52-0003-4a3e-9c1e-5a1e5a1e0003"
	SeedDeveloper2ID = "6f1c1a52-0004-4a3e-9c1e-5a1e5a1e0004"

	// DemoPassword is the password of every seeded account.
	DemoPassword = "cmtai-demo"
)

func seedUsers(createdAt time.Time) []models.User {
	return []models.User{
		{ID: SeedSalesID, Name: "Sales User", Email: "sales@cmtai.com", Role: models.RoleOriginator, CreatedAt: createdAt},
		{ID: SeedReviewerID, Name: "CTO", Email: "cto@cmtai.com", Role: models.RoleReviewer, CreatedAt: createdAt},
		{ID: SeedDeveloper1ID, Name: "Developer 1", Email: "dev1@cmtai.com", Role: models.RoleAssignee, CreatedAt: createdAt},
		{ID: SeedDeveloper2ID, Name: "Developer 2", Email: "dev2@cmtai.com", Role: models.RoleAssignee, CreatedAt: createdAt},
	}
}

func seedProjects() []models.Project {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	dateRef := func(t time.Time) *time.Time { return &t }
	developer := SeedDeveloper1ID

	return []models.Project{
		{
			ID:            "b7e0c6d4-0001-4f0a-8a51-3c2d1e0f0001",
			ReferenceCode: "CMT-123456-001",
			ClientName:    "Acme Corp",
			ClientEmail:   "contact@acme.com",
			ClientPhone:   "555-123-4567",
			Description:   "E-commerce website for selling widgets",
			Requirements:  "Must include payment gateway, product catalog, and admin portal",
			Status:        models.ProjectStatusDevelopment,
			Approved:      true,
			AssigneeID:    &developer,
			Deadline:      dateRef(day(2025, time.May, 15)),
			OriginatorID:  SeedSalesID,
			CreatedAt:     day(2025, time.March, 1),
			RenewalDate:   dateRef(day(2026, time.March, 1)),
			Notes: []models.Note{
				{
					ID:        "b7e0c6d4-0101-4f0a-8a51-3c2d1e0f0101",
					Content:   "Client prefers a minimalist design",
					Author:    "Sales User",
					IsPublic:  true,
					CreatedAt: day(2025, time.March, 1),
				},
				{
					ID:        "b7e0c6d4-0102-4f0a-8a51-3c2d1e0f0102",
					Content:   "Using React and Node.js for this project",
					Author:    "Developer 1",
					CreatedAt: day(2025, time.March, 5),
				},
			},
			Credentials: []models.Credential{},
		},
		{
			ID:            "b7e0c6d4-0002-4f0a-8a51-3c2d1e0f0002",
			ReferenceCode: "CMT-789012-002",
			ClientName:    "TechStart Inc",
			ClientEmail:   "info@techstart.com",
			ClientPhone:   "555-987-6543",
			Description:   "Startup landing page with contact form",
			Requirements:  "Modern design, newsletter signup, contact form",
			Status:        models.ProjectStatusRequirements,
			OriginatorID:  SeedSalesID,
			CreatedAt:     day(2025, time.April, 5),
			Notes: []models.Note{
				{
					ID:        "b7e0c6d4-0103-4f0a-8a51-3c2d1e0f0103",
					Content:   "Client is in a hurry, needs it within 2 weeks",
					Author:    "Sales User",
					CreatedAt: day(2025, time.April, 5),
				},
			},
			Credentials: []models.Credential{},
		},
	}
}
