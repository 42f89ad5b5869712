// Loads reference ingredients and tags from a JSON file into the database.
//
// Usage: seed_ingredients -file data/ingredients.json [-tags data/tags.json]
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/Pascal-138/GroceryAssistant/config"
	"github.com/Pascal-138/GroceryAssistant/internal/database"
	"github.com/Pascal-138/GroceryAssistant/internal/models"
)

type ingredientRow struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type tagRow struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

func main() {
	ingredientsPath := flag.String("file", "data/ingredients.json", "path to ingredients JSON")
	tagsPath := flag.String("tags", "", "optional path to tags JSON")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var rows []ingredientRow
	if err := readJSON(*ingredientsPath, &rows); err != nil {
		log.Fatalf("Failed to read ingredients: %v", err)
	}

	seeded := 0
	for _, row := range rows {
		var count int64
		if err := db.Model(&models.Ingredient{}).
			Where("name = ? AND measurement_unit = ?", row.Name, row.MeasurementUnit).
			Count(&count).Error; err != nil {
			log.Fatalf("Failed to check ingredient %q: %v", row.Name, err)
		}
		if count > 0 {
			continue
		}
		ing := models.Ingredient{Name: row.Name, MeasurementUnit: row.MeasurementUnit}
		if err := db.Create(&ing).Error; err != nil {
			log.Fatalf("Failed to create ingredient %q: %v", row.Name, err)
		}
		seeded++
	}
	log.Printf("Seeded %d ingredients (%d already present)", seeded, len(rows)-seeded)

	if *tagsPath == "" {
		return
	}

	var tagRows []tagRow
	if err := readJSON(*tagsPath, &tagRows); err != nil {
		log.Fatalf("Failed to read tags: %v", err)
	}
	for _, row := range tagRows {
		var count int64
		if err := db.Model(&models.Tag{}).Where("slug = ?", row.Slug).Count(&count).Error; err != nil {
			log.Fatalf("Failed to check tag %q: %v", row.Slug, err)
		}
		if count > 0 {
			continue
		}
		tag := models.Tag{Name: row.Name, Color: row.Color, Slug: row.Slug}
		if err := db.Create(&tag).Error; err != nil {
			log.Fatalf("Failed to create tag %q: %v", row.Slug, err)
		}
	}
	log.Printf("Seeded tags from %s", *tagsPath)
}

func readJSON(path string, dest interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
