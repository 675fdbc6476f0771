package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type mysqlConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	User   string `yaml:"user"`
	Pass   string `yaml:"pass"`
	DBName string `yaml:"dbname"`
}

// DatasetLoad archives one successful dataset load: the merged record
// payload plus enough metadata to list and restore it later. The content
// hash makes re-uploading an identical dataset idempotent.
type DatasetLoad struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement;type:bigint unsigned"`
	Name        string         `gorm:"size:255;not null"`
	FileCount   int            `gorm:"type:int;not null"`
	RecordCount int            `gorm:"type:int;not null"`
	ContentHash string         `gorm:"size:64;not null;uniqueIndex:uk_content_hash"`
	Payload     datatypes.JSON `gorm:"type:longtext;not null"`
	LoadedAt    time.Time      `gorm:"type:datetime(3);not null;index:idx_loaded_at"`
}

func (DatasetLoad) TableName() string {
	return "dataset_load"
}

func openDB(cfg *mysqlConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Pass,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&DatasetLoad{}); err != nil {
		return nil, err
	}

	return db, nil
}

// archiveDatasetLoad persists a loaded dataset. Re-archiving a payload with
// the same content hash returns the existing row instead of a duplicate.
func archiveDatasetLoad(db *gorm.DB, name string, fileCount int, records []Record) (uint64, bool, error) {
	payload, err := json.Marshal(records)
	if err != nil {
		return 0, false, err
	}
	sum := sha256.Sum256(payload)
	hash := hex.EncodeToString(sum[:])

	var existing DatasetLoad
	query := db.Where("content_hash = ?", hash)
	if err := query.First(&existing).Error; err == nil {
		return existing.ID, true, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, err
	}

	load := DatasetLoad{
		Name:        name,
		FileCount:   fileCount,
		RecordCount: len(records),
		ContentHash: hash,
		Payload:     datatypes.JSON(payload),
		LoadedAt:    time.Now().UTC(),
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "content_hash"}},
		DoNothing: true,
	}).Create(&load).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := query.First(&existing).Error; err == nil {
				return existing.ID, true, nil
			}
		}
		return 0, false, err
	}
	if load.ID == 0 {
		// conflict path: another writer archived the same payload first
		if err := query.First(&existing).Error; err == nil {
			return existing.ID, true, nil
		}
	}
	return load.ID, false, nil
}

func listDatasetLoads(db *gorm.DB, limit int) ([]datasetLoadRow, error) {
	var rows []datasetLoadRow
	err := db.Model(&DatasetLoad{}).
		Select("id, name, file_count, record_count, loaded_at").
		Order("loaded_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func loadDatasetByID(db *gorm.DB, id uint64) ([]Record, error) {
	var load DatasetLoad
	if err := db.First(&load, id).Error; err != nil {
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(load.Payload, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// loadLatestDataset restores the most recently archived load, if any.
func loadLatestDataset(db *gorm.DB) ([]Record, bool, error) {
	var load DatasetLoad
	err := db.Order("loaded_at DESC").First(&load).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var records []Record
	if err := json.Unmarshal(load.Payload, &records); err != nil {
		return nil, false, err
	}
	return records, true, nil
}
