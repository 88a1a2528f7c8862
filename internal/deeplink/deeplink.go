// Package deeplink builds the outbound URIs the app hands to the
// platform opener: social share intents, mailto/sms/tel links, and the
// client welcome link used by lead scouting.
package deeplink

import (
	"net/url"
	"strings"
)

// Fixed share assets for the app itself.
const (
	ShareURL   = "https://carbcleantruckcheck.app/"
	ShareTitle = "Mobile Carb Check"
	ShareText  = "Keep your fleet compliant. Check heavy-duty diesel compliance instantly and find certified smoke testers."

	// SupportPhone is the business dispatch line, digits only so it can
	// be embedded in tel: and sms: URIs directly.
	SupportPhone = "6173596953"
	SupportEmail = "support@norcalcarbmobile.com"
)

// ShareBody is the message used for sms/email shares.
func ShareBody() string {
	return ShareText + " Download the app here: " + ShareURL
}

// escape percent-encodes for URI query components. Mail and SMS handlers
// do not decode '+' as a space, so spaces must stay %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// TweetURL is the X (Twitter) share intent for the app.
func TweetURL() string {
	return "https://twitter.com/intent/tweet?text=" + escape(ShareText) + "&url=" + escape(ShareURL)
}

// FacebookURL is the Facebook sharer link for the app.
func FacebookURL() string {
	return "https://www.facebook.com/sharer/sharer.php?u=" + escape(ShareURL)
}

// RedditURL is the Reddit submit link for the app.
func RedditURL() string {
	return "https://www.reddit.com/submit?url=" + escape(ShareURL) + "&title=" + escape(ShareTitle)
}

// Mailto builds a mailto: URI. An empty to address produces a bare
// compose link, matching the app-share email.
func Mailto(to, subject, body string) string {
	return "mailto:" + to + "?subject=" + escape(subject) + "&body=" + escape(body)
}

// SMS builds an sms: URI. An empty number lets the user pick the
// recipient.
func SMS(number, body string) string {
	return "sms:" + number + "?body=" + escape(body)
}

// Tel builds a tel: URI for the given digits-only number.
func Tel(number string) string {
	return "tel:" + number
}

// ClientWelcomeURL builds the personalized onboarding link included in
// scouted-lead email drafts. Opening it greets the named company.
func ClientWelcomeURL(clientName string) string {
	return ShareURL + "?client=" + escape(clientName)
}
