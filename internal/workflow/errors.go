package workflow

import "fmt"

// Stage names a step of the workflow.
type Stage string

const (
	StageCredentials             Stage = "credentials"
	StageClient                  Stage = "client"
	StageUploadImage             Stage = "upload_image"
	StageStoreTokenMetadata      Stage = "store_token_metadata"
	StageStoreCollectionMetadata Stage = "store_collection_metadata"
	StageDeploy                  Stage = "deploy"
	StageMint                    Stage = "mint"
)

// Stages lists every stage in execution order.
var Stages = []Stage{
	StageCredentials,
	StageClient,
	StageUploadImage,
	StageStoreTokenMetadata,
	StageStoreCollectionMetadata,
	StageDeploy,
	StageMint,
}

func (s Stage) String() string {
	return string(s)
}

// StageError reports the stage a run stopped at.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
