package dto

// LoginRequest carries the authorization code returned by the provider.
type LoginRequest struct {
	Code string `json:"code"`
}

// OTPRequest is the client payload for issuing an email OTP. Correlation
// is the display prefix shown alongside the passcode.
type OTPRequest struct {
	EmailAddress string `json:"emailAddress"`
	Correlation  int    `json:"correlation"`
}

// SMSOTPRequest is the client payload for issuing an SMS OTP.
type SMSOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Correlation int    `json:"correlation"`
}

// VerifyOTPRequest submits a passcode for a pending verification.
type VerifyOTPRequest struct {
	Otp   string `json:"otp"`
	OtpID string `json:"otpId"`
}
