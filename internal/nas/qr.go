package nas

import "net/url"

// OnboardingQR returns the notakey:// URI that the mobile application
// reads from the onboarding QR code. Pure string construction, no
// network call. The announced endpoint is the configured service
// domain, falling back to the API base URL.
func (c *Client) OnboardingQR() string {
	endpoint := c.serviceDomain
	if endpoint == "" {
		endpoint = c.baseURL
	}

	return "notakey://qr?a=o&k=" + url.QueryEscape(c.serviceID) + "&u=" + url.QueryEscape(endpoint)
}
