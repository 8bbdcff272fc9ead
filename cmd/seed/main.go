package main

import (
	"log"
	"time"

	"blindspot-api/config"
	"blindspot-api/controllers"
	"blindspot-api/models"

	"github.com/joho/godotenv"
)

type categorySeed struct {
	authority string
	name      string
	icon      string
	severity  int
}

// Seeds a local development database with the Kochi demo data set:
// authorities, their categories, a demo citizen and a handful of aged
// issues so the urgency tiers and silence scores are visible immediately.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Authority{},
		&models.Category{},
		&models.Issue{},
		&models.IssueConfirmation{},
		&models.IssueComment{},
		&models.NotificationLog{},
		&models.AuthorityUser{},
		&models.IssueStatusLog{},
	); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	authorities := []models.Authority{
		{Name: "Water Authority", Description: "Kerala Water Authority - Responsible for water supply and drainage", Icon: "fa-droplet", Color: "#3b82f6"},
		{Name: "Municipal Corporation", Description: "Waste management and sanitation", Icon: "fa-city", Color: "#22c55e"},
		{Name: "Electricity Board", Description: "Street lighting and electrical infrastructure", Icon: "fa-bolt", Color: "#eab308"},
		{Name: "Urban Infrastructure", Description: "Roads, walkways and public spaces", Icon: "fa-road", Color: "#f97316"},
	}

	byName := make(map[string]models.Authority, len(authorities))
	for _, a := range authorities {
		var existing models.Authority
		if err := config.DB.Where("name = ?", a.Name).First(&existing).Error; err == nil {
			byName[a.Name] = existing
			continue
		}
		a.CreateAt = time.Now()
		if err := config.DB.Create(&a).Error; err != nil {
			log.Fatalf("seeding authority %s: %v", a.Name, err)
		}
		byName[a.Name] = a
		log.Printf("  Authority: %s", a.Name)
	}

	categories := []categorySeed{
		{"Water Authority", "Water Leakage", "fa-droplet", 4},
		{"Water Authority", "Pipeline Burst", "fa-burst", 5},
		{"Water Authority", "Open Drain", "fa-water", 4},
		{"Water Authority", "Sewage Overflow", "fa-poo", 5},
		{"Municipal Corporation", "Waste Dumping", "fa-trash", 4},
		{"Municipal Corporation", "Overflowing Bins", "fa-dumpster", 3},
		{"Municipal Corporation", "Poor Sanitation", "fa-broom", 3},
		{"Municipal Corporation", "Stray Animal Menace", "fa-dog", 3},
		{"Electricity Board", "Broken Streetlight", "fa-lightbulb", 3},
		{"Electricity Board", "Exposed Wires", "fa-plug", 5},
		{"Electricity Board", "Fallen Electric Pole", "fa-plug-circle-exclamation", 5},
		{"Electricity Board", "Transformer Issue", "fa-car-battery", 4},
		{"Urban Infrastructure", "Pothole", "fa-circle-exclamation", 4},
		{"Urban Infrastructure", "Damaged Walkway", "fa-person-walking", 3},
		{"Urban Infrastructure", "Broken Footbridge", "fa-bridge", 4},
		{"Urban Infrastructure", "Unsafe Public Space", "fa-triangle-exclamation", 4},
	}

	catByName := make(map[string]models.Category, len(categories))
	for _, seed := range categories {
		authority := byName[seed.authority]
		var existing models.Category
		err := config.DB.Where("authority_id = ? AND name = ?", authority.AuthorityID, seed.name).First(&existing).Error
		if err == nil {
			catByName[seed.name] = existing
			continue
		}
		cat := models.Category{
			AuthorityID:     authority.AuthorityID,
			Name:            seed.name,
			Icon:            seed.icon,
			DefaultSeverity: seed.severity,
			CreateAt:        time.Now(),
		}
		if err := config.DB.Create(&cat).Error; err != nil {
			log.Fatalf("seeding category %s: %v", seed.name, err)
		}
		catByName[seed.name] = cat
	}

	// Demo citizen
	var citizen models.User
	if err := config.DB.Where("username = ?", "citizen").First(&citizen).Error; err != nil {
		hash, err := controllers.HashPassword("blindspot123")
		if err != nil {
			log.Fatalf("hashing demo password: %v", err)
		}
		citizen = models.User{
			Username: "citizen",
			Email:    "citizen@blindspot.local",
			Password: hash,
			CreateAt: time.Now(),
		}
		if err := config.DB.Create(&citizen).Error; err != nil {
			log.Fatalf("seeding demo user: %v", err)
		}
	}

	// Aged demo issues around Kochi so derived metrics are non-trivial
	issues := []struct {
		title    string
		category string
		lat, lng float64
		address  string
		severity int
		daysOld  int
	}{
		{"Massive pothole near Marine Drive", "Pothole", 9.9816, 76.2762, "Marine Drive, Kochi", 4, 45},
		{"Streetlight out for weeks", "Broken Streetlight", 9.9730, 76.2810, "Panampilly Nagar", 3, 22},
		{"Burst pipeline flooding the lane", "Pipeline Burst", 9.9662, 76.2421, "Thoppumpady", 5, 3},
		{"Garbage pileup by the market", "Waste Dumping", 9.9894, 76.2790, "Broadway, Ernakulam", 4, 12},
		{"Open drain outside school", "Open Drain", 9.9312, 76.2673, "Kundannoor", 4, 31},
	}

	reporterID := citizen.UserID
	for _, seed := range issues {
		var existing models.Issue
		if err := config.DB.Where("title = ?", seed.title).First(&existing).Error; err == nil {
			continue
		}
		cat := catByName[seed.category]
		issue := models.Issue{
			Title:      seed.title,
			CategoryID: cat.CategoryID,
			Latitude:   seed.lat,
			Longitude:  seed.lng,
			Address:    seed.address,
			Severity:   seed.severity,
			Status:     models.StatusIgnored,
			ReportedAt: time.Now().AddDate(0, 0, -seed.daysOld),
			ReportedBy: &reporterID,
		}
		if err := config.DB.Create(&issue).Error; err != nil {
			log.Fatalf("seeding issue %q: %v", seed.title, err)
		}
	}

	log.Println("Seed complete")
	log.Println("  Username: citizen")
	log.Println("  Password: blindspot123")
}
