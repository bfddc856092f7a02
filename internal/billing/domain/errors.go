package domain

import "errors"

var (
	ErrInvalidOrganization  = errors.New("invalid_organization")
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidDocumentKind  = errors.New("invalid_document_kind")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidSequence      = errors.New("invalid_sequence")
	ErrInvalidParty         = errors.New("invalid_party")
	ErrInvalidDate          = errors.New("invalid_date")
	ErrNoItems              = errors.New("no_items")
	ErrInvalidLineItem      = errors.New("invalid_line_item")
	ErrInvalidTaxCode       = errors.New("invalid_tax_code")
	ErrInvalidUnitOfMeasure = errors.New("invalid_unit_of_measure")
	ErrInvalidPayment       = errors.New("invalid_payment")

	ErrSequenceConflict = errors.New("sequence_conflict")
	ErrDocumentNotFound = errors.New("document_not_found")
	ErrPartyNotFound    = errors.New("party_not_found")
	ErrOrgNotFound      = errors.New("org_not_found")
	ErrNotConvertible   = errors.New("not_convertible")
)
