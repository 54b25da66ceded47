package nftlabs

import (
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/nftlabs/mintflow/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSeaTokenLevelStandard(t *testing.T) {
	metadata, err := OpenSeaTokenLevelStandard(TokenMetadata{
		Name:        "Kandy Jane",
		Description: "A digital collectible",
		Image:       "ipfs://image",
		ExternalUrl: "https://google.com/",
	})
	require.NoError(t, err)
	assert.NotNil(t, metadata.Attributes)

	body, err := json.Marshal(metadata)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Kandy Jane",
		"description": "A digital collectible",
		"image": "ipfs://image",
		"external_url": "https://google.com/",
		"attributes": []
	}`, string(body))

	_, err = OpenSeaTokenLevelStandard(TokenMetadata{Image: "ipfs://image"})
	assert.True(t, errors.Is(err, errs.InvalidArgument))

	_, err = OpenSeaTokenLevelStandard(TokenMetadata{Name: "Kandy Jane"})
	assert.True(t, errors.Is(err, errs.InvalidArgument))

	_, err = OpenSeaTokenLevelStandard(TokenMetadata{Name: "Kandy Jane", Image: "ipfs://image", BackgroundColor: "#ffffff"})
	assert.True(t, errors.Is(err, errs.InvalidArgument))

	_, err = OpenSeaTokenLevelStandard(TokenMetadata{Name: "Kandy Jane", Image: "ipfs://image", BackgroundColor: "00fFaa"})
	assert.NoError(t, err)
}

func TestOpenSeaCollectionLevelStandard(t *testing.T) {
	metadata, err := OpenSeaCollectionLevelStandard(CollectionMetadata{
		Name:         "Emojis collection",
		Description:  "Emojis",
		Image:        "ipfs://collection-image",
		ExternalLink: "https://google.com/",
	})
	require.NoError(t, err)

	body, err := json.Marshal(metadata)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Emojis collection",
		"description": "Emojis",
		"image": "ipfs://collection-image",
		"external_link": "https://google.com/"
	}`, string(body))

	_, err = OpenSeaCollectionLevelStandard(CollectionMetadata{Name: "c", Image: "ipfs://i", SellerFeeBasisPoints: 10001})
	assert.True(t, errors.Is(err, errs.InvalidArgument))

	_, err = OpenSeaCollectionLevelStandard(CollectionMetadata{Image: "ipfs://i"})
	assert.True(t, errors.Is(err, errs.InvalidArgument))
}
