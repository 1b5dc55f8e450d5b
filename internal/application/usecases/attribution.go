package usecases

import (
	"net/url"
	"strings"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/entities"
)

// Channel labels. Every attribution path in the pipeline resolves to one
// of these, so a breakdown label always works as a channel filter value.
const (
	ChannelDirect        = "Direct"
	ChannelNewsletter    = "Newsletter"
	ChannelInternal      = "Internal"
	ChannelAI            = "AI"
	ChannelOrganicSocial = "Organic Social"
	ChannelOrganicSearch = "Organic Search"
	ChannelPaid          = "Paid"
	ChannelReferral      = "Referral"
)

// marketingDomain is the company's own marketing site; traffic arriving
// from it is internal navigation, not acquisition.
const marketingDomain = "sourcecodeals.com"

var emailDomains = []string{
	"brevo.com",
	"sendinblue.com",
	"sibautomation.com",
	"mailchimp.com",
	"list-manage.com",
	"mandrillapp.com",
	"hubspotemail.net",
	"klaviyo.com",
}

var aiDomains = []string{
	"chatgpt.com",
	"chat.openai.com",
	"perplexity.ai",
	"claude.ai",
	"gemini.google.com",
	"copilot.microsoft.com",
	"poe.com",
}

var socialDomains = []string{
	"facebook.com",
	"fb.com",
	"instagram.com",
	"linkedin.com",
	"lnkd.in",
	"twitter.com",
	"x.com",
	"t.co",
	"youtube.com",
	"reddit.com",
	"tiktok.com",
	"threads.net",
}

var searchDomains = []string{
	"google.",
	"bing.com",
	"duckduckgo.com",
	"yahoo.",
	"ecosia.org",
	"search.brave.com",
	"baidu.com",
	"yandex.",
}

// CategorizeChannel maps a (referrer, utm_source, utm_medium) triple to a
// channel label. The checks run in a fixed precedence order; in particular
// a search-engine referrer reached through a paid medium must resolve to
// Paid, not Organic Search.
func CategorizeChannel(referrer, utmSource, utmMedium string) string {
	ref := strings.ToLower(strings.TrimSpace(referrer))
	source := strings.ToLower(strings.TrimSpace(utmSource))
	medium := strings.ToLower(strings.TrimSpace(utmMedium))

	if ref == "" && source == "" {
		return ChannelDirect
	}
	if containsAny(ref, emailDomains) ||
		strings.Contains(medium, "email") || strings.Contains(medium, "newsletter") {
		return ChannelNewsletter
	}
	if strings.Contains(ref, marketingDomain) {
		return ChannelInternal
	}
	if containsAny(ref, aiDomains) {
		return ChannelAI
	}
	if containsAny(ref, socialDomains) {
		return ChannelOrganicSocial
	}

	paidMedium := strings.Contains(medium, "cpc") || strings.Contains(medium, "paid")
	if containsAny(ref, searchDomains) && !paidMedium {
		return ChannelOrganicSearch
	}
	if paidMedium {
		return ChannelPaid
	}
	if ref != "" {
		return ChannelReferral
	}
	return ChannelDirect
}

func containsAny(value string, needles []string) bool {
	if value == "" {
		return false
	}
	for _, needle := range needles {
		if strings.Contains(value, needle) {
			return true
		}
	}
	return false
}

// ExtractDomain normalizes a URL or bare-domain string to a lowercase
// hostname without the leading "www.". Email-service tracking subdomains
// collapse to one canonical domain per provider so a campaign does not
// fragment across bounce hosts. Malformed input degrades to a best-effort
// lowercase strip instead of failing.
func ExtractDomain(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	candidate := trimmed
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	host := ""
	if parsed, err := url.Parse(candidate); err == nil {
		host = parsed.Hostname()
	}
	if host == "" {
		host = strings.ToLower(trimmed)
		host = strings.TrimPrefix(host, "https://")
		host = strings.TrimPrefix(host, "http://")
		if i := strings.IndexAny(host, "/?#"); i >= 0 {
			host = host[:i]
		}
	}

	host = strings.TrimPrefix(strings.ToLower(host), "www.")

	switch {
	case strings.Contains(host, "brevo") || strings.Contains(host, "sendib"):
		return "brevo.com"
	case strings.Contains(host, "mailchimp") || strings.Contains(host, "list-manage"):
		return "mailchimp.com"
	}
	return host
}

// DiscoverySource is the true first-touch signal of a session: the
// cross-domain referrer captured at entry wins, then the UTM source, then
// the plain referrer.
func DiscoverySource(session *entities.TrackingSession) string {
	if session.OriginalReferrer != "" {
		return session.OriginalReferrer
	}
	if session.UtmSource != "" {
		return session.UtmSource
	}
	return session.Referrer
}

// FirstMeaningfulSession picks the session that gets attribution credit
// for a user's conversion: the earliest with a cross-domain referrer, else
// the earliest with a UTM source, else the earliest with any referrer,
// else simply the first. Input must already be in chronological order.
func FirstMeaningfulSession(sessions []entities.TrackingSession) *entities.TrackingSession {
	if len(sessions) == 0 {
		return nil
	}
	for i := range sessions {
		if sessions[i].OriginalReferrer != "" {
			return &sessions[i]
		}
	}
	for i := range sessions {
		if sessions[i].UtmSource != "" {
			return &sessions[i]
		}
	}
	for i := range sessions {
		if sessions[i].Referrer != "" {
			return &sessions[i]
		}
	}
	return &sessions[0]
}

// SelfReportedChannel maps the signup form's "how did you hear about us"
// vocabulary onto the channel label set. Returns "" for "other" and
// anything unrecognized so callers fall back to session-derived
// attribution.
func SelfReportedChannel(source string) string {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "google", "search", "search engine":
		return ChannelOrganicSearch
	case "linkedin", "facebook", "instagram", "twitter", "x", "youtube", "social media":
		return ChannelOrganicSocial
	case "friend", "colleague", "word of mouth", "referral", "broker":
		return ChannelReferral
	case "newsletter", "email":
		return ChannelNewsletter
	case "chatgpt", "ai", "ai assistant":
		return ChannelAI
	case "ad", "ads", "google ads", "linkedin ads":
		return ChannelPaid
	default:
		return ""
	}
}

var pseudonymColors = []string{
	"Amber", "Blue", "Coral", "Crimson", "Emerald", "Golden",
	"Indigo", "Ivory", "Jade", "Maroon", "Olive", "Pearl",
	"Ruby", "Sapphire", "Scarlet", "Silver", "Teal", "Violet",
}

var pseudonymAnimals = []string{
	"Antelope", "Badger", "Bison", "Falcon", "Fox", "Gazelle",
	"Heron", "Ibex", "Jaguar", "Kestrel", "Lynx", "Marten",
	"Otter", "Panther", "Quail", "Raven", "Stoat", "Tapir",
	"Vole", "Wolf",
}

// AnimalName gives an anonymous visitor a stable human-readable pseudonym
// derived from its identifier. Not security-sensitive; collisions are
// acceptable.
func AnimalName(id string) string {
	var hash uint32
	for _, r := range id {
		hash = hash*31 + uint32(r)
	}
	color := pseudonymColors[hash%uint32(len(pseudonymColors))]
	animal := pseudonymAnimals[(hash/uint32(len(pseudonymColors)))%uint32(len(pseudonymAnimals))]
	return color + " " + animal
}
