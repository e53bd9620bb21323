package service

// StructValidator validates tagged request structs and returns an
// apperror.ErrValidation error naming the first bad field.
type StructValidator interface {
	Struct(s any) error
}
