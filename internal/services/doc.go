// Package services holds the business logic between the HTTP transport
// and the dataset, pipeline, and exporter packages.
package services
