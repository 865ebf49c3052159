// Package validation concentra las reglas de validación de campos.
// Las validaciones acumulan TODOS los errores de campo en una sola pasada en
// lugar de cortar en el primero; la capa HTTP los devuelve juntos.
package validation

import (
	"regexp"
	"strings"
)

// FieldError es un error de validación atribuible a un campo puntual.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors acumula errores de campo.
type Errors []FieldError

// Add agrega un error de campo.
func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Empty retorna true si no se acumuló ningún error.
func (e Errors) Empty() bool { return len(e) == 0 }

// Error implementa error; permite propagar la lista completa hacia la capa
// HTTP, que la detecta con errors.As y la serializa campo por campo.
func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation: " + strings.Join(parts, "; ")
}

// Email rules: pragmatic, not RFC-complete.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail returns true if the string looks like an email address.
func ValidEmail(s string) bool {
	return len(s) <= 254 && emailRe.MatchString(s)
}

var (
	species   = set("dog", "cat", "squirrel", "iguana", "other")
	statuses  = set("reported", "rescued", "at_vet", "surgery", "at_foster", "adoption_talks", "adopted")
	urgencies = set("high", "medium", "low")
	roles     = set("rescuer", "vet", "foster", "adoption_coordinator", "admin")
)

// ValidSpecies returns true for a known species tag.
func ValidSpecies(s string) bool { _, ok := species[s]; return ok }

// ValidStatus returns true for a known lifecycle tag. Cualquier valor del
// conjunto es asignable desde cualquier otro: el status es una etiqueta, no
// una máquina de estados estricta.
func ValidStatus(s string) bool { _, ok := statuses[s]; return ok }

// ValidUrgency returns true for a known urgency tag.
func ValidUrgency(s string) bool { _, ok := urgencies[s]; return ok }

// ValidRole returns true for a known user role.
func ValidRole(s string) bool { _, ok := roles[s]; return ok }

// ValidSortBy returns true for an accepted case-list sort field.
func ValidSortBy(s string) bool {
	switch s {
	case "created_at", "updated_at", "urgency":
		return true
	}
	return false
}

// NonEmpty returns true if s has non-whitespace content.
func NonEmpty(s string) bool { return strings.TrimSpace(s) != "" }

func set(items ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, it := range items {
		m[it] = struct{}{}
	}
	return m
}
