// Package entity defines the domain models for the universe feature.
package entity

import "time"

// Benchmark is a market index the analysis regresses against, e.g. "NASDAQ 100" quoted as "^NDX".
type Benchmark struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null;uniqueIndex"`
	Symbol    string    `gorm:"size:32;not null;uniqueIndex"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Symbol is a selectable constituent of a benchmark.
// The same code may appear under several benchmarks.
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Benchmark string    `gorm:"size:100;not null;uniqueIndex:symbol_bench_code,priority:1"`
	Code      string    `gorm:"size:32;not null;uniqueIndex:symbol_bench_code,priority:2"`
	Name      string    `gorm:"size:255;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
