// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Generic request errors
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeNotFound         Code = "NOT_FOUND"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodePermissionDenied Code = "PERMISSION_DENIED"

	// Account errors
	CodeAccountNameEmpty          Code = "ACCOUNT_NAME_EMPTY"
	CodeAccountEmailInvalid       Code = "ACCOUNT_EMAIL_INVALID"
	CodeAccountPasswordTooShort   Code = "ACCOUNT_PASSWORD_TOO_SHORT"
	CodeAccountRoleInvalid        Code = "ACCOUNT_ROLE_INVALID"
	CodeAccountRoleNotAllowed     Code = "ACCOUNT_ROLE_NOT_ALLOWED"
	CodeAccountEmailTaken         Code = "ACCOUNT_EMAIL_TAKEN"
	CodeAccountInvalidCredentials Code = "ACCOUNT_INVALID_CREDENTIALS"
	CodeAuthTokenInvalid          Code = "AUTH_TOKEN_INVALID"

	// Event errors
	CodeEventTitleEmpty              Code = "EVENT_TITLE_EMPTY"
	CodeEventDescriptionEmpty        Code = "EVENT_DESCRIPTION_EMPTY"
	CodeEventDateInvalid             Code = "EVENT_DATE_INVALID"
	CodeEventPriceInvalid            Code = "EVENT_PRICE_INVALID"
	CodeEventCapacityInvalid         Code = "EVENT_CAPACITY_INVALID"
	CodeEventAddressInvalid          Code = "EVENT_ADDRESS_INVALID"
	CodeEventCapacityBelowRegistered Code = "EVENT_CAPACITY_BELOW_REGISTERED"
	CodeEventNotOwner                Code = "EVENT_NOT_OWNER"

	// Order errors
	CodeOrderAttendeesEmpty         Code = "ORDER_ATTENDEES_EMPTY"
	CodeOrderAttendeeInvalid        Code = "ORDER_ATTENDEE_INVALID"
	CodeOrderQuantityMismatch       Code = "ORDER_QUANTITY_MISMATCH"
	CodeOrderCapacityExceeded       Code = "ORDER_CAPACITY_EXCEEDED"
	CodeOrderAlreadyRegistered      Code = "ORDER_ALREADY_REGISTERED"
	CodeOrderEventStarted           Code = "ORDER_EVENT_STARTED"
	CodeOrderStatusInvalid          Code = "ORDER_STATUS_INVALID"
	CodeOrderStatusTransitionDenied Code = "ORDER_STATUS_TRANSITION_DENIED"

	// Geocoding errors
	CodeGeocodingAddressIncomplete Code = "GEOCODING_ADDRESS_INCOMPLETE"
	CodeGeocodingQueryEmpty        Code = "GEOCODING_QUERY_EMPTY"
	CodeGeocodingCoordinateInvalid Code = "GEOCODING_COORDINATE_INVALID"
	CodeGeocodingNoResult          Code = "GEOCODING_NO_RESULT"

	// AI seeding errors
	CodeSeedRegionIncomplete Code = "SEED_REGION_INCOMPLETE"
	CodeSeedUnavailable      Code = "SEED_UNAVAILABLE"
	CodeSeedGenerationFailed Code = "SEED_GENERATION_FAILED"

	// Media errors
	CodeMediaTypeUnsupported Code = "MEDIA_TYPE_UNSUPPORTED"
	CodeMediaTooLarge        Code = "MEDIA_TOO_LARGE"
	CodeMediaUploadFailed    Code = "MEDIA_UPLOAD_FAILED"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeInvalidArgument,
		CodeAccountNameEmpty,
		CodeAccountEmailInvalid,
		CodeAccountPasswordTooShort,
		CodeAccountRoleInvalid,
		CodeEventTitleEmpty,
		CodeEventDescriptionEmpty,
		CodeEventDateInvalid,
		CodeEventPriceInvalid,
		CodeEventCapacityInvalid,
		CodeEventAddressInvalid,
		CodeOrderAttendeesEmpty,
		CodeOrderAttendeeInvalid,
		CodeOrderQuantityMismatch,
		CodeOrderEventStarted,
		CodeOrderStatusInvalid,
		CodeOrderStatusTransitionDenied,
		CodeGeocodingAddressIncomplete,
		CodeGeocodingQueryEmpty,
		CodeGeocodingCoordinateInvalid,
		CodeSeedRegionIncomplete,
		CodeMediaTypeUnsupported:
		return http.StatusBadRequest

	case CodeMediaTooLarge:
		return http.StatusRequestEntityTooLarge

	case CodeUnauthenticated,
		CodeAccountInvalidCredentials,
		CodeAuthTokenInvalid:
		return http.StatusUnauthorized

	case CodePermissionDenied,
		CodeAccountRoleNotAllowed,
		CodeEventNotOwner:
		return http.StatusForbidden

	case CodeNotFound,
		CodeGeocodingNoResult:
		return http.StatusNotFound

	// Conflict - state or uniqueness prevents the operation
	case CodeAccountEmailTaken,
		CodeEventCapacityBelowRegistered,
		CodeOrderCapacityExceeded,
		CodeOrderAlreadyRegistered:
		return http.StatusConflict

	case CodeSeedGenerationFailed,
		CodeMediaUploadFailed:
		return http.StatusBadGateway

	case CodeSeedUnavailable:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
