// Package model defines the shared data types for the resolution pipeline.
package model

// CompanyRecord is one entry from the upstream directory producer. Website is
// empty until the pipeline resolves it.
type CompanyRecord struct {
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
}
