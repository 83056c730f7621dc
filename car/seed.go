package car

import (
	"encoding/json"
	"log"
	"os"

	"gorm.io/gorm"
)

// Seed loads the initial fleet from a JSON file when the table is empty.
func Seed(db *gorm.DB, path string) error {
	var count int64
	db.Model(&Car{}).Count(&count)
	if count > 0 {
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var cars []Car
	if err := json.NewDecoder(file).Decode(&cars); err != nil {
		return err
	}

	if err := db.Create(&cars).Error; err != nil {
		return err
	}

	log.Printf("seeded %d cars", len(cars))
	return nil
}
