package workflow

import (
	"strings"

	"github.com/nftlabs/mintflow/pkg/nftlabs"
	"github.com/samber/lo"
)

const (
	// FallbackRecipient receives the token when no recipient is configured.
	FallbackRecipient = "0x510e5EA32386B7C48C4DEEAC80e86859b5e2416C"

	DemoImageURL = "https://res.cloudinary.com/olanetsoft/image/upload/c_pad,b_auto:predominant,fl_preserve_transparency/v1672327921/demo.jpg"
)

// Plan is everything a run publishes. Image fields of the metadata are filled in by the
// runner from the upload results.
type Plan struct {
	TokenImage string
	Token      nftlabs.TokenMetadata

	CollectionImage string
	Collection      nftlabs.CollectionMetadata

	Template       nftlabs.Template
	ContractName   string
	ContractSymbol string

	Recipient string
}

// DefaultPlan returns the emoji collection with its single "Kandy Jane" token.
func DefaultPlan(recipient string) Plan {
	return Plan{
		TokenImage: DemoImageURL,
		Token: nftlabs.TokenMetadata{
			Name:        "Kandy Jane",
			Description: "Fantastic creature of different emojis",
			ExternalUrl: "https://google.com/",
			Attributes:  []nftlabs.Attribute{},
		},
		CollectionImage: DemoImageURL,
		Collection: nftlabs.CollectionMetadata{
			Name:         "Emojis collection",
			Description:  "A small digital image or icon used to express an idea or emotion in electronic communication. Emoji's come in many forms, such as smiley faces, animals, food, and activities. ",
			ExternalLink: "https://google.com/",
		},
		Template:       nftlabs.TemplateERC721Mintable,
		ContractName:   "1507Contract",
		ContractSymbol: "EM",
		Recipient:      ResolveRecipient(recipient),
	}
}

// ResolveRecipient returns recipient, or FallbackRecipient when it is empty.
func ResolveRecipient(recipient string) string {
	resolved, _ := lo.Coalesce(strings.TrimSpace(recipient), FallbackRecipient)
	return resolved
}
