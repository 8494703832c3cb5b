package lookml

import (
	"encoding/json"
	"fmt"
	"io"
)

// projectDoc is the on-disk shape consumed by LoadProject: a flat
// description of a LookML project's models, explores, and dimensions. This
// is a stand-in for the real semantic model loader (introspecting a live
// project via its API), which is an external collaborator this package does
// not implement.
type projectDoc struct {
	Name   string `json:"name"`
	Models []struct {
		Name     string `json:"model"`
		Explores []struct {
			Name       string `json:"explore"`
			URL        string `json:"url"`
			Dimensions []struct {
				Name string `json:"name"`
				URL  string `json:"url"`
			} `json:"dimensions"`
		} `json:"explores"`
	} `json:"models"`
}

// LoadProject decodes a project description from r into a Project tree of
// Explores and Dimensions ready to hand to the scheduler.
func LoadProject(r io.Reader) (*Project, error) {
	var doc projectDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding project description: %w", err)
	}

	var explores []*Explore
	for _, model := range doc.Models {
		for _, exp := range model.Explores {
			dims := make([]*Dimension, len(exp.Dimensions))
			for i, d := range exp.Dimensions {
				dims[i] = NewDimension(model.Name, exp.Name, d.Name, d.URL)
			}
			explore := NewExplore(model.Name, exp.Name, dims)
			explore.ExpURL = exp.URL
			explores = append(explores, explore)
		}
	}

	return NewProject(doc.Name, explores...), nil
}
