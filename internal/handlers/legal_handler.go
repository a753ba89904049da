package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type LegalHandler struct{}

func NewLegalHandler() *LegalHandler {
	return &LegalHandler{}
}

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Privacy Policy - NutriSight</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>
</head><body>
<h1>Privacy Policy</h1>
<p>Last updated: August 2026</p>
<h2>Information We Collect</h2>
<p>We collect your email address, the health profile you choose to share during onboarding, and photos of food labels you submit for analysis. If you sign in with Apple, we receive your Apple ID identifier.</p>
<h2>How We Use Your Information</h2>
<p>Your health profile is used solely to personalize label analysis. Label photos are processed by our analysis provider and may be retained to show your scan history.</p>
<h2>Data Storage</h2>
<p>Your data is stored securely on encrypted servers. We do not sell your personal information to third parties.</p>
<h2>Your Choices</h2>
<p>You can revoke consent, skip the health questionnaire, or delete your account and all associated data at any time from the app settings.</p>
<h2>Contact</h2>
<p>For questions about this policy, contact us at support@nutrisight.app</p>
</body></html>`)
}

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Terms of Service - NutriSight</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>
</head><body>
<h1>Terms of Service</h1>
<p>Last updated: August 2026</p>
<h2>Acceptance</h2>
<p>By using NutriSight, you agree to these terms. Label analysis requires accepting the current consent version in the app.</p>
<h2>Not Medical Advice</h2>
<p>NutriSight provides general nutrition information based on ingredient lists. It is not a substitute for professional medical advice, diagnosis, or treatment.</p>
<h2>Scan Allowance</h2>
<p>Free accounts include a fixed number of label scans. Additional scans and premium analysis require an active subscription.</p>
<h2>Subscriptions</h2>
<p>Premium features require an active subscription managed through the App Store. Subscriptions auto-renew unless cancelled 24 hours before the end of the current period.</p>
<h2>Termination</h2>
<p>We may suspend or terminate accounts that violate these terms.</p>
<h2>Contact</h2>
<p>For questions, contact us at support@nutrisight.app</p>
</body></html>`)
}
