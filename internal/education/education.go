// Package education holds the CARB Academy content. Topics are authored
// in markdown and rendered with glamour in the TUI.
package education

// Topic is one expandable guide in the academy.
type Topic struct {
	ID       string
	Title    string
	Markdown string
}

// Topics returns the academy guides in display order.
func Topics() []Topic {
	return []Topic{
		{
			ID:    "steps",
			Title: "The 3 Steps to Compliance",
			Markdown: `# The 3 Steps to Compliance

1. **Register (CTC-VIS).** You must create an account on the CARB
   website and upload your vehicle info.
2. **Pay the Fee.** $30 per vehicle, every year. If you don't pay, you
   can't print your certificate.
3. **Pass the Test.** Get a Smoke/OBD test from a credentialed tester
   (like us). Results upload automatically.
`,
		},
		{
			ID:    "blocked",
			Title: "Why am I Blocked?",
			Markdown: `# Why am I Blocked?

A "Blocked" status usually means one of three things:

- **Unpaid Fees.** Did you pay your $30 for this year?
- **Bad Data.** Does the VIN in your account match the truck exactly?
- **No Test.** Has it been more than a year since your last test?

**Solution:** Log into the CTC-VIS portal to check for "Holds".
`,
		},
		{
			ID:    "deadlines",
			Title: "When is my deadline?",
			Markdown: `# When is my deadline?

Deadlines are now linked to your **DMV Registration Expiration**.

| Year | Frequency    |
|------|--------------|
| 2024 | Once / Year  |
| 2025 | Twice / Year |

You must test no more than 90 days before your registration expires.
`,
		},
		{
			ID:    "myths",
			Title: "Common Myths",
			Markdown: `# Common Myths

**Myth:** "I have a 2010 truck so I am exempt."

**Fact:** No. Nearly all diesel vehicles over 14,000 lbs must test,
regardless of age, until fully electric.

**Myth:** "I can just go to a Smog Check station."

**Fact:** Most can't help. You need a **Credentialed Clean Truck
Tester** (like us).
`,
		},
	}
}

// External resources linked from the academy footer.
const (
	VideosURL = "https://www.youtube.com/user/calairresourcesboard"
	PortalURL = "https://cleantruckcheck.arb.ca.gov/"
)

// Find returns the topic with the given ID.
func Find(id string) (Topic, bool) {
	for _, t := range Topics() {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}
