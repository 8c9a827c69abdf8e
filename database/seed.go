package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"larsbees/entities"
)

var DefaultTaskTypes = []entities.TaskType{
	{Name: "General Inspection", Category: "inspection", Description: "Regular hive inspection", Order: 1},
	{Name: "Queen Check", Category: "inspection", Description: "Check for queen presence and eggs", Order: 2},
	{Name: "Brood Pattern Check", Category: "inspection", Description: "Inspect brood pattern health", Order: 3},
	{Name: "Pest Inspection", Category: "inspection", Description: "Check for pests and diseases", Order: 4},

	{Name: "Sugar Syrup Feeding", Category: "feeding", Description: "Fed sugar syrup to colony", Order: 10},
	{Name: "Pollen Patty", Category: "feeding", Description: "Provided pollen substitute", Order: 11},
	{Name: "Fondant Feeding", Category: "feeding", Description: "Emergency winter feeding", Order: 12},

	{Name: "Varroa Treatment", Category: "treatment", Description: "Applied varroa mite treatment", Order: 20},
	{Name: "Nosema Treatment", Category: "treatment", Description: "Applied nosema treatment", Order: 21},
	{Name: "Small Hive Beetle Treatment", Category: "treatment", Description: "SHB management", Order: 22},

	{Name: "Honey Harvest", Category: "harvest", Description: "Harvested honey frames", Order: 30},
	{Name: "Wax Harvest", Category: "harvest", Description: "Collected beeswax", Order: 31},
	{Name: "Propolis Harvest", Category: "harvest", Description: "Collected propolis", Order: 32},

	{Name: "Add Super", Category: "maintenance", Description: "Added honey super", Order: 40},
	{Name: "Remove Super", Category: "maintenance", Description: "Removed honey super", Order: 41},
	{Name: "Replace Frames", Category: "maintenance", Description: "Replaced old frames", Order: 42},
	{Name: "Hive Repair", Category: "maintenance", Description: "Repaired hive equipment", Order: 43},
	{Name: "Entrance Reducer", Category: "maintenance", Description: "Adjusted entrance reducer", Order: 44},
	{Name: "Queen Excluder", Category: "maintenance", Description: "Installed/removed queen excluder", Order: 45},

	{Name: "Swarm Collection", Category: "event", Description: "Collected a swarm", Order: 50},
	{Name: "Split Colony", Category: "event", Description: "Split colony for expansion", Order: 51},
	{Name: "Combine Colonies", Category: "event", Description: "Combined weak colonies", Order: 52},
	{Name: "Requeen", Category: "event", Description: "Introduced new queen", Order: 53},
}

func intp(v int) *int { return &v }

var SystemTemplates = []entities.TaskTemplate{
	{
		Name: "Disease Management", Category: "Disease Management",
		Description:       "Comprehensive disease monitoring and treatment",
		EstimatedDuration: 90, Priority: "high",
		IsSeasonal: true, SeasonMonths: []int{3, 4, 5, 9, 10, 11},
		WeatherDependent: true, MinTemperature: intp(10), AvoidRain: true, BestTimeOfDay: "morning",
		ChecklistItems:  []string{"Check for AFB symptoms", "Test for Varroa mites", "Inspect for Chalkbrood", "Check for Nosema", "Apply treatments if needed", "Record findings"},
		EquipmentNeeded: []string{"Hive tool", "Smoker", "Alcohol wash kit", "Microscope", "Treatment supplies"},
		SuppliesNeeded:  []string{"Varroa treatment", "Oxytetracycline", "Formic acid"},
	},
	{
		Name: "General Inspection", Category: "Inspection",
		Description:       "Regular comprehensive hive inspection",
		EstimatedDuration: 45, Priority: "medium",
		IsSeasonal: true, SeasonMonths: []int{3, 4, 5, 6, 7, 8, 9},
		WeatherDependent: true, MinTemperature: intp(15), AvoidRain: true, BestTimeOfDay: "morning",
		ChecklistItems:  []string{"Check queen presence", "Inspect brood pattern", "Check food stores", "Look for pests", "Assess hive strength", "Check for swarm cells"},
		EquipmentNeeded: []string{"Hive tool", "Smoker", "Bee brush", "Frame grip"},
		SuppliesNeeded:  []string{},
	},
	{
		Name: "Feeding Round", Category: "Feeding",
		Description:       "Distribute supplemental feed to colonies",
		EstimatedDuration: 30, Priority: "medium",
		IsSeasonal: true, SeasonMonths: []int{2, 3, 9, 10, 11},
		BestTimeOfDay:   "evening",
		ChecklistItems:  []string{"Check existing feed levels", "Prepare sugar syrup", "Add pollen patties", "Check feeding stations", "Record amounts given"},
		EquipmentNeeded: []string{"Feeding containers", "Measuring cups", "Syrup bucket"},
		SuppliesNeeded:  []string{"Sugar", "Pollen substitute", "Honey"},
	},
	{
		Name: "Harvest Honey", Category: "Harvest",
		Description:       "Harvest honey from supers",
		EstimatedDuration: 120, Priority: "medium",
		IsSeasonal: true, SeasonMonths: []int{7, 8, 9},
		WeatherDependent: true, MinTemperature: intp(20), AvoidRain: true, BestTimeOfDay: "morning",
		ChecklistItems:  []string{"Check honey moisture content", "Remove supers", "Uncap frames", "Extract honey", "Filter honey", "Store properly"},
		EquipmentNeeded: []string{"Honey extractor", "Uncapping knife", "Honey filter", "Storage containers"},
		SuppliesNeeded:  []string{"Honey containers", "Labels"},
	},
	{
		Name: "Spring Build Up", Category: "Seasonal",
		Description:       "Early season colony stimulation",
		EstimatedDuration: 60, Priority: "high",
		IsSeasonal: true, SeasonMonths: []int{3, 4, 5},
		WeatherDependent: true, MinTemperature: intp(12), AvoidRain: true, BestTimeOfDay: "morning",
		ChecklistItems:  []string{"Check overwintering success", "Equalize colonies", "Add space", "Stimulate with feed", "Check for queen issues"},
		EquipmentNeeded: []string{"Hive tool", "Smoker", "Extra boxes"},
		SuppliesNeeded:  []string{"Sugar syrup", "Pollen patties"},
	},
	{
		Name: "Treatment Round", Category: "Treatment",
		Description:       "Apply pest control treatments",
		EstimatedDuration: 75, Priority: "high",
		IsSeasonal: true, SeasonMonths: []int{9, 10, 11, 3, 4},
		WeatherDependent: true, MinTemperature: intp(10), AvoidRain: true, BestTimeOfDay: "morning",
		ChecklistItems:  []string{"Test varroa levels", "Apply formic acid", "Check treatment effectiveness", "Record treatment dates", "Monitor for resistance"},
		EquipmentNeeded: []string{"Treatment supplies", "Measuring tools", "Protective gear"},
		SuppliesNeeded:  []string{"Formic acid", "Oxalic acid", "Thymol"},
	},
}

// Seed inserts the task type catalog and system templates that are missing
// by name. Existing rows are left alone.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, tt := range DefaultTaskTypes {
			tt := tt
			if err := tx.Where(entities.TaskType{Name: tt.Name}).FirstOrCreate(&tt).Error; err != nil {
				return fmt.Errorf("seed task type %q: %w", tt.Name, err)
			}
		}
		for _, tpl := range SystemTemplates {
			tpl := tpl
			tpl.IsSystemTemplate = true
			var n int64
			if err := tx.Model(&entities.TaskTemplate{}).
				Where("name = ? AND is_system_template = ?", tpl.Name, true).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			if err := tx.Create(&tpl).Error; err != nil {
				return fmt.Errorf("seed template %q: %w", tpl.Name, err)
			}
		}
		return nil
	})
}

// EnsureAdmin creates an administrator when the user table is empty.
// It reports whether a user was created.
func EnsureAdmin(ctx context.Context, db *gorm.DB, username, password string) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&entities.User{}).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if username == "" || password == "" {
		return false, errors.New("admin username and password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	admin := entities.User{
		Username:       username,
		Email:          username + "@larsbees.local",
		PasswordHash:   string(hash),
		Role:           "admin",
		Status:         "active",
		IsActive:       true,
		IsAdmin:        true,
		CanManageUsers: true,
		CalendarToken:  uuid.NewString(),
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}

// SampleUser owns the demo sites created by SeedSample.
const (
	SampleUser     = "testuser"
	SamplePassword = "test123"
)

var sampleSites = []entities.Site{
	{Name: "North Field", Description: "Main apiary site", Latitude: 40.7128, Longitude: -74.0060, HiveCount: 5},
	{Name: "South Meadow", Description: "Secondary site", Latitude: 40.7580, Longitude: -73.9855, HiveCount: 8},
	{Name: "East Garden", Description: "Small urban site", Latitude: 40.7489, Longitude: -73.9680, HiveCount: 3},
}

// SeedSample creates the demo user and its sites unless the user exists.
// It reports whether anything was written.
func SeedSample(ctx context.Context, db *gorm.DB) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&entities.User{}).Where("username = ?", SampleUser).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(SamplePassword), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u := entities.User{
			Username: SampleUser, Email: SampleUser + "@example.com", PasswordHash: string(hash),
			Role: "staff", Status: "active", IsActive: true, CalendarToken: uuid.NewString(),
		}
		if err := tx.Create(&u).Error; err != nil {
			return fmt.Errorf("create sample user: %w", err)
		}
		for _, s := range sampleSites {
			s.UserID = u.UserID
			s.HarvestTimeline = "Spring 2025"
			s.SugarRequirements = "10kg per month"
			s.IsActive = true
			if err := tx.Create(&s).Error; err != nil {
				return fmt.Errorf("create sample site %q: %w", s.Name, err)
			}
		}
		return nil
	})
	return err == nil, err
}
