package domain

import "strings"

// Platform identifies the e-commerce platform a submission URL points at.
type Platform string

const (
	PlatformAmazon  Platform = "amazon"
	PlatformShopify Platform = "shopify"
	PlatformUnknown Platform = "unknown"
)

// knownShopifyDomains are hostname fragments that identify Shopify stores
// even without an explicit "shopify" token in the URL.
var knownShopifyDomains = []string{".myshopify.com"}

// DetectPlatform inspects a product URL and returns the platform it
// belongs to. Unrecognized URLs map to PlatformUnknown.
func DetectPlatform(url string) Platform {
	lower := strings.ToLower(url)

	if strings.Contains(lower, "amazon.") {
		return PlatformAmazon
	}

	for _, d := range knownShopifyDomains {
		if strings.Contains(lower, d) {
			return PlatformShopify
		}
	}

	if strings.Contains(lower, "/products/") {
		return PlatformShopify
	}

	return PlatformUnknown
}
