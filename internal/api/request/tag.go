package request

import "strings"

// MaxTagLength is the maximum length of a tag name.
const MaxTagLength = 50

// AttachTagRequest represents a request to tag a task.
type AttachTagRequest struct {
	Name string `json:"name"`
}

// Validate validates the attach tag request.
func (r *AttachTagRequest) Validate() []string {
	r.Name = strings.TrimSpace(r.Name)
	return validateTagName(r.Name)
}

// CreateTagsRequest represents a request to create tags.
type CreateTagsRequest struct {
	Names []string `json:"names"`
}

// Validate validates the create tags request.
func (r *CreateTagsRequest) Validate() []string {
	if len(r.Names) == 0 {
		return []string{"names is required"}
	}

	var errors []string
	seen := make(map[string]bool, len(r.Names))
	for i, name := range r.Names {
		name = strings.TrimSpace(name)
		r.Names[i] = name
		errors = append(errors, validateTagName(name)...)
		if seen[name] {
			errors = append(errors, "duplicate tag "+name)
		}
		seen[name] = true
	}
	return errors
}

func validateTagName(name string) []string {
	switch {
	case name == "":
		return []string{"tag name is required"}
	case len(name) > MaxTagLength:
		return []string{"tag name is too long"}
	}
	return nil
}
