package platform

import (
	"regexp"
	"time"
)

func linkedinConfig() *Config {
	return &Config{
		Name:               "linkedin",
		LoginURL:           "https://www.linkedin.com/login",
		LandingURL:         "https://www.linkedin.com/feed/",
		profileURLTemplate: "https://www.linkedin.com/in/%s/recent-activity/all/",

		Selectors: Selectors{
			PostContainer: SelectorChain{
				`div.feed-shared-update-v2`,
				`li.profile-creator-shared-feed-update__container`,
				`div[data-urn*="activity"]`,
			},
			Text: SelectorChain{
				`div.update-components-text`,
				`span.break-words`,
			},
			Author: SelectorChain{
				`span.update-components-actor__name`,
				`span.feed-shared-actor__name`,
			},
			Date: SelectorChain{
				`span.update-components-actor__sub-description`,
				`time`,
			},
			Stats: SelectorChain{
				`ul.social-details-social-counts`,
				`span.social-details-social-counts__reactions-count`,
			},
			Link: SelectorChain{
				`a[href*="/feed/update/"]`,
			},
		},

		PopupSelectors: []string{
			`button[action-type="DENY"]`,
			`button.artdeco-modal__dismiss`,
		},

		UsernameField: `input#username`,
		PasswordField: `input#password`,
		SubmitButton:  `button[type="submit"]`,

		LoggedInMarker:  `.global-nav__me`,
		TwoFactorMarker: `input#input__phone_verification_pin`,
		ChallengePathHints: []string{
			"/checkpoint/challenge",
			"/uas/login-submit",
		},

		StatPatterns: map[string][]*regexp.Regexp{
			"likes": mustCompile(
				`(?i)([\d.,]+[KkMm]?)\s*(?:reactions?|likes?)\b`,
			),
			"comments": mustCompile(
				`(?i)([\d.,]+[KkMm]?)\s*comments?\b`,
			),
			"shares": mustCompile(
				`(?i)([\d.,]+[KkMm]?)\s*reposts?\b`,
			),
		},

		Timing: Timing{
			ScrollDelay:       2500 * time.Millisecond,
			MaxScrolls:        10,
			PostLimit:         50,
			LoginTimeout:      20 * time.Second,
			NavigationTimeout: 45 * time.Second,
		},
	}
}
