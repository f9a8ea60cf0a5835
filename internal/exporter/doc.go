// Package exporter renders filtered sales rows into downloadable
// files. The xlsx writer builds the workbook fully in memory so
// handlers can stream it without touching disk.
package exporter
