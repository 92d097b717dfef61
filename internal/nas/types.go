package nas

// OAuth2 scopes the NAS grants tokens for. Scope strings are used
// verbatim as cache and store keys; multi-scope strings keep the
// exact token order the server was asked for.
const (
	ScopeAuth          = "urn:notakey:auth"
	ScopeUser          = "urn:notakey:user"
	ScopeUserManager   = "urn:notakey:user urn:notakey:usermanager"
	ScopeDeviceManager = "urn:notakey:user urn:notakey:devicemanager"
)

// Response kinds a resolved authentication request carries.
const (
	ResponseApprove = "ApproveRequest"
	ResponseDeny    = "DenyRequest"
)

type tokenGrantRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Scope        string `json:"scope"`
}

type tokenGrantResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// AuthRequestInput is the body for creating a push authentication request.
type AuthRequestInput struct {
	Username    string `json:"username"`
	Action      string `json:"action"`
	Description string `json:"description"`
	TTLSeconds  int    `json:"ttl_seconds"`
}

// AuthRequest is a server-tracked push authentication request. The same
// shape is returned on creation and on status polls; ResponseType stays
// empty until the mobile device resolves the request.
type AuthRequest struct {
	UUID         string `json:"uuid"`
	Username     string `json:"username"`
	Action       string `json:"action"`
	Description  string `json:"description"`
	TTLSeconds   int    `json:"ttl_seconds"`
	Expired      bool   `json:"expired"`
	ResponseType string `json:"response_type"`
}

// User is a NAS service user. MaxUserDeviceCount zero means unlimited
// device seats.
type User struct {
	Keyname            string   `json:"keyname"`
	Username           string   `json:"username"`
	FullName           string   `json:"full_name"`
	Email              string   `json:"email"`
	MainPhoneNumber    string   `json:"main_phone_number"`
	Groups             []string `json:"groups"`
	MaxUserDeviceCount int      `json:"max_user_device_count"`
}

// UserData is the body for creating or updating a NAS user.
type UserData struct {
	Username        string   `json:"username"`
	Password        string   `json:"password"`
	FullName        string   `json:"full_name"`
	Email           string   `json:"email"`
	MainPhoneNumber string   `json:"main_phone_number"`
	Groups          []string `json:"groups"`
}

// Device is an enrolled authenticator device.
type Device struct {
	Keyname      string `json:"keyname"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	AppVersion   string `json:"app_version"`
	OSLocale     string `json:"os_locale"`
}

// Service is the NAS service descriptor.
type Service struct {
	Keyname                string                  `json:"keyname"`
	DisplayName            string                  `json:"display_name"`
	OnboardingRequirements []OnboardingRequirement `json:"onboarding_requirements"`
}

// OnboardingRequirement describes one proof the service demands during
// device onboarding. Older servers leave Type empty, so callers match
// against ProofCreationURI instead.
type OnboardingRequirement struct {
	Type             string `json:"type"`
	ProofCreationURI string `json:"proof_creation_uri"`
}
