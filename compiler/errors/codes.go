package errors

// Error code constants organized by category
// E100-E199: Resource errors (schema store, input boundary)
// E200-E299: Structural IR errors
// E900-E999: Internal invariant violations

const (
	// Resource errors (E100-E199)
	ErrSchemaFetchFailed    = "E100"
	ErrSchemaInvalidAddress = "E101"
	ErrInputInvalidDocument = "E102"

	// Structural IR errors (E200-E299)
	ErrNoForwardDeclarableTypeInCycle = "E200"
	ErrNoEmptyUnions                  = "E201"
	ErrTypeAttributesNotPropagated    = "E202"
	ErrNoTypesInGraph                 = "E203"

	// Internal invariant violations (E900-E999)
	ErrInternal = "E900"
)

// Kind identifiers exposed to drivers so they can localize errors
// without parsing codes.
const (
	KindIRNoForwardDeclarableTypeInCycle = "IRNoForwardDeclarableTypeInCycle"
	KindIRNoEmptyUnions                  = "IRNoEmptyUnions"
	KindIRTypeAttributesNotPropagated    = "IRTypeAttributesNotPropagated"
	KindInternalError                    = "InternalError"
	KindSchemaFetchFailed                = "SchemaFetchFailed"
)

// kindForCode maps codes to their driver-facing kind identifiers.
var kindForCode = map[string]string{
	ErrSchemaFetchFailed:              KindSchemaFetchFailed,
	ErrNoForwardDeclarableTypeInCycle: KindIRNoForwardDeclarableTypeInCycle,
	ErrNoEmptyUnions:                  KindIRNoEmptyUnions,
	ErrTypeAttributesNotPropagated:    KindIRTypeAttributesNotPropagated,
	ErrInternal:                       KindInternalError,
}

// templates holds the human-readable message template for each code.
// Placeholders of the form ${name} are substituted from the error's
// property bag by the message formatter.
var templates = map[string]string{
	ErrSchemaFetchFailed:              "could not fetch schema at ${address}: ${reason}",
	ErrSchemaInvalidAddress:           "invalid schema address ${address}",
	ErrInputInvalidDocument:           "invalid input document ${name}: ${reason}",
	ErrNoForwardDeclarableTypeInCycle: "cycle of ${count} types has no forward-declarable member",
	ErrNoEmptyUnions:                  "union ${name} has no members",
	ErrTypeAttributesNotPropagated:    "type attributes were not propagated through a rewrite: ${attributes}",
	ErrNoTypesInGraph:                 "the type graph contains no types",
	ErrInternal:                       "internal error: ${message}",
}
