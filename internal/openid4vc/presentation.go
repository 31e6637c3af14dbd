package openid4vc

import "strings"

// PresentationDefinition describes what a verifier wants presented, in the
// DIF Presentation Exchange shape. Only field-path constraints are evaluated.
type PresentationDefinition struct {
	ID               string            `json:"id"`
	InputDescriptors []InputDescriptor `json:"input_descriptors"`
}

// InputDescriptor names one requested credential and its constraints.
type InputDescriptor struct {
	ID          string      `json:"id"`
	Constraints Constraints `json:"constraints"`
}

// Constraints restricts which credentials satisfy an input descriptor.
type Constraints struct {
	Fields []FieldConstraint `json:"fields,omitempty"`
}

// FieldConstraint requires a claim to be present at one of the given JSON
// paths inside the credential.
type FieldConstraint struct {
	Path []string `json:"path"`
}

// Satisfies reports whether the decoded credential claims meet every input
// descriptor of the definition. Every descriptor must have all of its field
// paths present in at least one credential.
func (d PresentationDefinition) Satisfies(credentials []map[string]any) bool {
	for _, descriptor := range d.InputDescriptors {
		if !descriptorSatisfied(descriptor, credentials) {
			return false
		}
	}
	return true
}

func descriptorSatisfied(descriptor InputDescriptor, credentials []map[string]any) bool {
	for _, credential := range credentials {
		if allFieldsPresent(descriptor.Constraints.Fields, credential) {
			return true
		}
	}
	return false
}

func allFieldsPresent(fields []FieldConstraint, credential map[string]any) bool {
	for _, field := range fields {
		if !anyPathPresent(field.Path, credential) {
			return false
		}
	}
	return true
}

func anyPathPresent(paths []string, credential map[string]any) bool {
	for _, path := range paths {
		if lookupPath(credential, path) {
			return true
		}
	}
	return false
}

// lookupPath resolves a restricted JSONPath of the form $.a.b.c against the
// claim set. Wildcards and filters are not supported; a descriptor using them
// simply does not match.
func lookupPath(claims map[string]any, path string) bool {
	trimmed := strings.TrimPrefix(path, "$.")
	if trimmed == path {
		return false
	}
	current := any(claims)
	for _, segment := range strings.Split(trimmed, ".") {
		object, ok := current.(map[string]any)
		if !ok {
			return false
		}
		current, ok = object[segment]
		if !ok {
			return false
		}
	}
	return true
}
