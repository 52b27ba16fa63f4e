package model

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewAPIError(errReason error) APIError {
	switch errReason.Error() {
	case "RATE_LIMIT_REACHED":
		return APIError{
			Code:    "RATE_LIMIT_REACHED",
			Message: "github rate limit reached. consider using a token to increase the limit or wait few minutes and try again",
		}

	case "UNKNOWN_FEATURE":
		return APIError{
			Code:    "UNKNOWN_FEATURE",
			Message: "unknown ranking feature. allowed values are stars, forks, open_issues and doc_score",
		}

	case "KEYWORDS_UNAVAILABLE":
		return APIError{
			Code:    "KEYWORDS_UNAVAILABLE",
			Message: "language keywords table could not be loaded. check the DATA section of the configuration",
		}

	case "RATE_LIMITER_ERROR", "INVALID_DATA_FOUND", "FETCH_ERROR":
		return APIError{
			Code:    errReason.Error(),
			Message: "internal server error. contact our support with the reason code for assistance",
		}
	}

	return APIError{
		Code:    "GENERIC_ERROR",
		Message: "internal server error. contact our support with the reason code for assistance",
	}
}
