package nftlabs

import (
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/nftlabs/mintflow/common/errs"
)

// Attribute is a single trait of an OpenSea token level metadata document.
type Attribute struct {
	TraitType   string      `json:"trait_type,omitempty"`
	Value       interface{} `json:"value"`
	DisplayType string      `json:"display_type,omitempty"`
}

// TokenMetadata follows the OpenSea token level metadata standard.
type TokenMetadata struct {
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Image           string      `json:"image"`
	ExternalUrl     string      `json:"external_url,omitempty"`
	Attributes      []Attribute `json:"attributes"`
	AnimationUrl    string      `json:"animation_url,omitempty"`
	YoutubeUrl      string      `json:"youtube_url,omitempty"`
	BackgroundColor string      `json:"background_color,omitempty"`
}

// CollectionMetadata follows the OpenSea contract level metadata standard.
type CollectionMetadata struct {
	Name                 string `json:"name"`
	Description          string `json:"description"`
	Image                string `json:"image"`
	ExternalLink         string `json:"external_link,omitempty"`
	SellerFeeBasisPoints int    `json:"seller_fee_basis_points,omitempty"`
	FeeRecipient         string `json:"fee_recipient,omitempty"`
}

// NftMetadata is a minted token together with the metadata its uri resolves to.
type NftMetadata struct {
	Id  *big.Int
	Uri string
	TokenMetadata
}

func OpenSeaTokenLevelStandard(metadata TokenMetadata) (TokenMetadata, error) {
	if strings.TrimSpace(metadata.Name) == "" {
		return TokenMetadata{}, errors.Wrap(errs.InvalidArgument, "token metadata name is required")
	}
	if metadata.Image == "" {
		return TokenMetadata{}, errors.Wrap(errs.InvalidArgument, "token metadata image is required")
	}
	if metadata.BackgroundColor != "" && !isHexColor(metadata.BackgroundColor) {
		return TokenMetadata{}, errors.Wrapf(errs.InvalidArgument, "background color %q must be six hex digits without #", metadata.BackgroundColor)
	}
	if metadata.Attributes == nil {
		metadata.Attributes = []Attribute{}
	}
	return metadata, nil
}

func OpenSeaCollectionLevelStandard(metadata CollectionMetadata) (CollectionMetadata, error) {
	if strings.TrimSpace(metadata.Name) == "" {
		return CollectionMetadata{}, errors.Wrap(errs.InvalidArgument, "collection metadata name is required")
	}
	if metadata.Image == "" {
		return CollectionMetadata{}, errors.Wrap(errs.InvalidArgument, "collection metadata image is required")
	}
	if metadata.SellerFeeBasisPoints < 0 || metadata.SellerFeeBasisPoints > 10000 {
		return CollectionMetadata{}, errors.Wrapf(errs.InvalidArgument, "seller fee %d must be between 0 and 10000 basis points", metadata.SellerFeeBasisPoints)
	}
	return metadata, nil
}

func isHexColor(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
