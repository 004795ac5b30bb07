/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrMetadataValidation is returned when an annotation property is missing or malformed
	ErrMetadataValidation = errors.New("metadata validation failed")

	// ErrUnresolvableType is returned when a symbolic type reference cannot be resolved
	ErrUnresolvableType = errors.New("unresolvable type")

	// ErrInconsistentMetadata is returned when annotations of one class contradict each other
	ErrInconsistentMetadata = errors.New("inconsistent metadata")

	// ErrGeneration is returned when an ID generator fails to produce a value
	ErrGeneration = errors.New("identifier generation failed")

	// ErrMissingContext is returned when resolution is attempted without a source context
	ErrMissingContext = errors.New("missing source context")

	// ErrTransform is returned when a value transformer fails
	ErrTransform = errors.New("value transformation failed")

	// ErrNotFound is returned when an entity, property or sequence is not found
	ErrNotFound = errors.New("entity not found")

	// ErrConditionFailed is returned when a conditional update fails
	ErrConditionFailed = errors.New("condition check failed")
)

// MetadataValidationError reports a missing or malformed annotation property.
type MetadataValidationError struct {
	Annotation string
	Field      string
	Message    string
}

func (e *MetadataValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("annotation %q: property %q %s", e.Annotation, e.Field, e.Message)
	}
	return fmt.Sprintf("annotation %q: %s", e.Annotation, e.Message)
}

func (e *MetadataValidationError) Is(target error) bool {
	return target == ErrMetadataValidation
}

// UnresolvableTypeError reports a symbol that did not resolve to a registered type.
type UnresolvableTypeError struct {
	Symbol    string
	Namespace string
}

func (e *UnresolvableTypeError) Error() string {
	if e.Namespace != "" {
		return fmt.Sprintf("cannot resolve type %q from namespace %q", e.Symbol, e.Namespace)
	}
	return fmt.Sprintf("cannot resolve type %q", e.Symbol)
}

func (e *UnresolvableTypeError) Is(target error) bool {
	return target == ErrUnresolvableType
}

// InconsistentMetadataError reports a cross-annotation check that failed while
// building the metadata of a class.
type InconsistentMetadataError struct {
	Class      string
	Property   string
	Annotation string
	Message    string
}

func (e *InconsistentMetadataError) Error() string {
	switch {
	case e.Property != "" && e.Annotation != "":
		return fmt.Sprintf("class %s: property %s: @%s %s", e.Class, e.Property, e.Annotation, e.Message)
	case e.Property != "":
		return fmt.Sprintf("class %s: property %s: %s", e.Class, e.Property, e.Message)
	case e.Annotation != "":
		return fmt.Sprintf("class %s: @%s %s", e.Class, e.Annotation, e.Message)
	}
	return fmt.Sprintf("class %s: %s", e.Class, e.Message)
}

func (e *InconsistentMetadataError) Is(target error) bool {
	return target == ErrInconsistentMetadata
}

// GenerationError wraps the failure of an ID generator.
type GenerationError struct {
	Class     string
	Property  string
	Generator string
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generator %s failed for %s.%s: %v", e.Generator, e.Class, e.Property, e.Err)
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// MissingContextError reports symbol resolution attempted without a source context.
type MissingContextError struct {
	Annotation string
}

func (e *MissingContextError) Error() string {
	if e.Annotation == "" {
		return "no source context to resolve types against"
	}
	return fmt.Sprintf("annotation %q: no source context to resolve types against", e.Annotation)
}

func (e *MissingContextError) Is(target error) bool {
	return target == ErrMissingContext
}

// Direction tells which way a value was crossing when a transformer failed.
type Direction string

const (
	ToStorage Direction = "storage"
	ToEntity  Direction = "entity"
)

// TransformError wraps the failure of a value transformer.
type TransformError struct {
	Class     string
	Property  string
	Table     string
	Column    string
	Direction Direction
	Err       error
}

func (e *TransformError) Error() string {
	if e.Direction == ToEntity {
		return fmt.Sprintf("transform %s.%s to entity value failed: %v", e.Table, e.Column, e.Err)
	}
	return fmt.Sprintf("transform %s.%s to storage value failed: %v", e.Class, e.Property, e.Err)
}

func (e *TransformError) Is(target error) bool {
	return target == ErrTransform
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConditionFailedError represents a failed conditional operation
type ConditionFailedError struct {
	Operation string
	Condition string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition check failed for %s operation: %s", e.Operation, e.Condition)
}

func (e *ConditionFailedError) Is(target error) bool {
	return target == ErrConditionFailed
}

// Helper functions for creating errors

// NewMetadataValidationError creates a new MetadataValidationError
func NewMetadataValidationError(annotation, field, message string) error {
	return &MetadataValidationError{Annotation: annotation, Field: field, Message: message}
}

// NewMissingPropertyError creates a MetadataValidationError for an absent required property
func NewMissingPropertyError(annotation, field string) error {
	return &MetadataValidationError{Annotation: annotation, Field: field, Message: "is required"}
}

// NewUnresolvableTypeError creates a new UnresolvableTypeError
func NewUnresolvableTypeError(symbol, namespace string) error {
	return &UnresolvableTypeError{Symbol: symbol, Namespace: namespace}
}

// NewInconsistentMetadataError creates a new InconsistentMetadataError
func NewInconsistentMetadataError(class, property, annotation, message string) error {
	return &InconsistentMetadataError{Class: class, Property: property, Annotation: annotation, Message: message}
}

// NewGenerationError creates a new GenerationError
func NewGenerationError(class, property, generator string, err error) error {
	return &GenerationError{Class: class, Property: property, Generator: generator, Err: err}
}

// NewMissingContextError creates a new MissingContextError
func NewMissingContextError(annotation string) error {
	return &MissingContextError{Annotation: annotation}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewConditionFailedError creates a new ConditionFailedError
func NewConditionFailedError(operation, condition string) error {
	return &ConditionFailedError{Operation: operation, Condition: condition}
}

// IsMetadataValidation checks if an error is a metadata validation error
func IsMetadataValidation(err error) bool {
	return errors.Is(err, ErrMetadataValidation)
}

// IsUnresolvableType checks if an error is an unresolvable type error
func IsUnresolvableType(err error) bool {
	return errors.Is(err, ErrUnresolvableType)
}

// IsInconsistentMetadata checks if an error is an inconsistent metadata error
func IsInconsistentMetadata(err error) bool {
	return errors.Is(err, ErrInconsistentMetadata)
}

// IsGeneration checks if an error is a generation error
func IsGeneration(err error) bool {
	return errors.Is(err, ErrGeneration)
}

// IsMissingContext checks if an error is a missing context error
func IsMissingContext(err error) bool {
	return errors.Is(err, ErrMissingContext)
}

// IsTransform checks if an error is a transform error
func IsTransform(err error) bool {
	return errors.Is(err, ErrTransform)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConditionFailed checks if an error is a condition failed error
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}
