package platform

import (
	"regexp"
	"time"
)

func instagramConfig() *Config {
	return &Config{
		Name:               "instagram",
		LoginURL:           "https://www.instagram.com/accounts/login/",
		LandingURL:         "https://www.instagram.com/",
		profileURLTemplate: "https://www.instagram.com/%s/",

		Selectors: Selectors{
			PostContainer: SelectorChain{
				`article a[href*="/p/"]`,
				`article a[href*="/reel/"]`,
				`main article`,
			},
			Text: SelectorChain{
				`h1`,
				`span[dir="auto"]`,
				`img[alt]`,
			},
			Author: SelectorChain{
				`header a`,
				`a[role="link"] span`,
			},
			Date: SelectorChain{
				`time`,
			},
			Stats: SelectorChain{
				`section span`,
				`span[class*="like"]`,
			},
			Link: SelectorChain{
				`a[href*="/p/"]`,
				`a[href*="/reel/"]`,
			},
		},

		PopupSelectors: []string{
			// Cookie consent, "save login info", notification prompts.
			`button[tabindex="0"]:not([type="submit"])`,
			`div[role="dialog"] button:last-of-type`,
		},

		UsernameField: `input[name="username"]`,
		PasswordField: `input[name="password"]`,
		SubmitButton:  `button[type="submit"]`,

		LoggedInMarker:  `svg[aria-label="Home"]`,
		TwoFactorMarker: `input[name="verificationCode"]`,
		ChallengePathHints: []string{
			"/challenge/",
			"/accounts/suspended",
			"two_factor",
		},

		// Instagram renders grid items progressively after each scroll.
		SlowReveal: true,

		StatPatterns: map[string][]*regexp.Regexp{
			"likes": mustCompile(
				`(?i)([\d.,]+[KkMm]?)\s*likes?\b`,
				`(?i)liked by\s+[\w.]+\s+and\s+([\d.,]+[KkMm]?)\s+others`,
			),
			"comments": mustCompile(
				`(?i)(?:view all\s+)?([\d.,]+[KkMm]?)\s*comments?\b`,
			),
			"views": mustCompile(
				`(?i)([\d.,]+[KkMm]?)\s*views?\b`,
			),
		},

		Timing: Timing{
			ScrollDelay:       3 * time.Second,
			MaxScrolls:        10,
			PostLimit:         48,
			LoginTimeout:      25 * time.Second,
			NavigationTimeout: 45 * time.Second,
		},
	}
}
