package models

import "strings"

// ResourceType classifies uploaded study material
type ResourceType string

const (
	ResourceNotes   ResourceType = "notes"
	ResourceQuiz    ResourceType = "quiz"
	ResourceMidterm ResourceType = "midterm"
	ResourceFinal   ResourceType = "final"
	ResourceVideo   ResourceType = "video"
)

// ResourceTypes lists every accepted resource type
var ResourceTypes = []ResourceType{ResourceNotes, ResourceQuiz, ResourceMidterm, ResourceFinal, ResourceVideo}

// ParseResourceType lowercases s and reports whether it is a known type
func ParseResourceType(s string) (ResourceType, bool) {
	rt := ResourceType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ResourceTypes {
		if rt == known {
			return rt, true
		}
	}
	return rt, false
}

// DefaultSemester applies when a resource or tracked course omits one
const DefaultSemester = "Spring"

// DefaultCourses is returned by the course listing while no resource exists
var DefaultCourses = []string{"CSE110", "CSE220", "CSE422"}
