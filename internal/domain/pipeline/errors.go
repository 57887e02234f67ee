package pipeline

import "errors"

// ErrMissingUserID is returned for intakes without a user id.
var ErrMissingUserID = errors.New("intake has no user_id")
