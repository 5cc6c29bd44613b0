// Package inventory queries the provider for compute resources and
// reshapes the responses into the flat records the resolution pipeline
// presents for selection. All joins happen on deserialized structs;
// nothing shells out.
package inventory

import (
	stderrors "errors"
	"time"
)

// Tag keys hop filters and projects on.
const (
	TagName        = "Name"
	TagEnvironment = "Environment"
	TagRole        = "Role"
)

// ErrNotFound signals that a resolution hop came back empty. Callers treat
// it as "nothing selected" and end the pipeline quietly rather than
// surfacing an error to the operator.
var ErrNotFound = stderrors.New("no matching resource")

// Instance is a running EC2 instance flattened to the fields hop displays
// and connects to.
type Instance struct {
	ID        string
	Name      string
	PrivateIP string
	ImageID   string
}

// Cluster is an ECS cluster. Name is the ARN's resource portion.
type Cluster struct {
	ARN  string
	Name string
}

// Service is an ECS service within a cluster.
type Service struct {
	ARN  string
	Name string
}

// Task is an ECS task snapshot merged from the RUNNING and STOPPED lists.
// Timestamp is the start time for running tasks and the stop time for
// stopped ones, so a merged list sorted descending reads newest-first.
type Task struct {
	ARN                  string
	ID                   string
	Status               string
	Timestamp            time.Time
	ContainerInstanceARN string
}

// TaskHost is the resolved landing spot for a task: the EC2 instance that
// runs it plus the login account inferred from the instance's image.
type TaskHost struct {
	Instance  Instance
	LoginUser string
}
