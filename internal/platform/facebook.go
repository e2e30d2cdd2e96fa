package platform

import (
	"regexp"
	"time"
)

func facebookConfig() *Config {
	return &Config{
		Name:               "facebook",
		LoginURL:           "https://www.facebook.com/login/",
		LandingURL:         "https://www.facebook.com/",
		profileURLTemplate: "https://www.facebook.com/%s",

		Selectors: Selectors{
			PostContainer: SelectorChain{
				`div[role="article"]`,
				`div[data-pagelet^="FeedUnit"]`,
			},
			Text: SelectorChain{
				`div[data-ad-preview="message"]`,
				`div[dir="auto"]`,
			},
			Author: SelectorChain{
				`h3 a`,
				`strong a`,
				`h4 a`,
			},
			Date: SelectorChain{
				`abbr[data-utime]`,
				`a[aria-label] span`,
				`span[id^="jsc"] a`,
			},
			Stats: SelectorChain{
				`div[aria-label*="reaction"]`,
				`span[aria-label*="Like"]`,
				`div[role="toolbar"]`,
			},
			Link: SelectorChain{
				`a[href*="/posts/"]`,
				`a[href*="story_fbid"]`,
			},
		},

		PopupSelectors: []string{
			`div[aria-label="Close"]`,
			`button[data-cookiebanner="accept_button"]`,
			`div[role="dialog"] div[aria-label="Close"]`,
		},

		UsernameField: `input[name="email"]`,
		PasswordField: `input[name="pass"]`,
		SubmitButton:  `button[name="login"]`,

		LoggedInMarker:  `div[aria-label="Your profile"]`,
		TwoFactorMarker: `input[name="approvals_code"]`,
		ChallengePathHints: []string{
			"/checkpoint/",
			"/two_step_verification",
		},

		SlowReveal: true,

		StatPatterns: map[string][]*regexp.Regexp{
			"likes": mustCompile(
				`(?i)([\d.,]+[KkMm]?)\s*(?:reactions?|likes?)\b`,
				`(?i)All reactions:\s*([\d.,]+[KkMm]?)`,
			),
			"comments": mustCompile(
				`(?i)([\d.,]+[KkMm]?)\s*comments?\b`,
			),
			"shares": mustCompile(
				`(?i)([\d.,]+[KkMm]?)\s*shares?\b`,
			),
		},

		Timing: Timing{
			ScrollDelay:       3 * time.Second,
			MaxScrolls:        8,
			PostLimit:         40,
			LoginTimeout:      20 * time.Second,
			NavigationTimeout: 60 * time.Second,
		},
	}
}
