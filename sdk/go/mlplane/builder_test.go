// Copyright (C) The Arvados Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package mlplane

import (
	"errors"
	"strings"

	check "gopkg.in/check.v1"
)

var _ = check.Suite(&BuilderSuite{})

type BuilderSuite struct{}

const testRoleARN = "arn:aws:iam::123456789012:role/service-role/MLPlaneRole"

func validTrainingJobBuilder(name string) *CreateTrainingJobBuilder {
	return NewCreateTrainingJobBuilder(name).
		WithAlgorithmSpecification(TrainingImageAlgorithm("123456789012.dkr.ecr.us-east-1.amazonaws.com/xgboost:1", TrainingInputModeFile)).
		WithRoleARN(testRoleARN).
		AddChannel(Channel{
			ChannelName: "train",
			DataSource:  DataSource{S3DataSource: &S3DataSource{S3DataType: S3DataTypeS3Prefix, S3URI: "s3://bucket/train/"}},
		}).
		WithOutputDataConfig(OutputDataConfig{S3OutputPath: "s3://bucket/output/"}).
		WithResourceConfig(ResourceConfig{InstanceType: "ml.m5.xlarge", InstanceCount: 1, VolumeSizeInGB: 10}).
		WithStoppingCondition(StoppingCondition{MaxRuntimeInSeconds: 3600})
}

func (s *BuilderSuite) TestBuildValid(c *check.C) {
	req, err := validTrainingJobBuilder("prod-xgb-1").
		AddHyperParametersEntry("eta", "0.2").
		AddHyperParametersEntry("max_depth", "5").
		WithTags(Tag{Key: "team", Value: "ml"}).
		Build()
	c.Assert(err, check.IsNil)
	c.Check(req.TrainingJobName, check.Equals, "prod-xgb-1")
	c.Check(req.HyperParameters, check.DeepEquals, map[string]string{"eta": "0.2", "max_depth": "5"})
	c.Check(req.Validate(), check.IsNil)
}

func (s *BuilderSuite) TestBuildDoesNotAlias(c *check.C) {
	b := validTrainingJobBuilder("job").AddHyperParametersEntry("eta", "0.2")
	req1, err := b.Build()
	c.Assert(err, check.IsNil)
	b.AddHyperParametersEntry("gamma", "1")
	req2, err := b.Build()
	c.Assert(err, check.IsNil)
	c.Check(req1.HyperParameters, check.HasLen, 1)
	c.Check(req2.HyperParameters, check.HasLen, 2)
	req1.InputDataConfig[0].ChannelName = "changed"
	c.Check(req2.InputDataConfig[0].ChannelName, check.Equals, "train")
}

func (s *BuilderSuite) TestDuplicateKey(c *check.C) {
	b := validTrainingJobBuilder("job").
		AddHyperParametersEntry("eta", "0.2").
		AddHyperParametersEntry("eta", "0.3")
	_, err := b.Build()
	c.Assert(err, check.NotNil)
	c.Check(errors.Is(err, ErrDuplicateKey), check.Equals, true)
	c.Check(err, check.ErrorMatches, `HyperParameters: duplicated key "eta" provided`)
	var dkerr *DuplicateKeyError
	c.Assert(errors.As(err, &dkerr), check.Equals, true)
	c.Check(dkerr.Key, check.Equals, "eta")
}

func (s *BuilderSuite) TestClearThenAdd(c *check.C) {
	b := NewCreateTransformJobBuilder("t").
		AddEnvironmentEntry("MODE", "a").
		ClearEnvironmentEntries().
		AddEnvironmentEntry("MODE", "b")
	c.Check(b.errs, check.HasLen, 0)
	c.Check(b.req.Environment, check.DeepEquals, map[string]string{"MODE": "b"})

	b.ClearEnvironmentEntries()
	c.Check(b.req.Environment, check.IsNil)
}

func (s *BuilderSuite) TestClearAfterDuplicate(c *check.C) {
	req, err := validTrainingJobBuilder("job").
		AddHyperParametersEntry("eta", "0.2").
		AddHyperParametersEntry("eta", "0.3").
		ClearHyperParametersEntries().
		AddHyperParametersEntry("eta", "0.2").
		Build()
	c.Assert(err, check.IsNil)
	c.Check(req.HyperParameters, check.DeepEquals, map[string]string{"eta": "0.2"})

	tj, err := NewCreateTransformJobBuilder("t").
		AddEnvironmentEntry("MODE", "a").
		AddEnvironmentEntry("MODE", "b").
		WithEnvironment(map[string]string{"MODE": "c"}).
		Build()
	c.Check(errors.Is(err, ErrDuplicateKey), check.Equals, false)
	if err == nil {
		c.Check(tj.Environment, check.DeepEquals, map[string]string{"MODE": "c"})
	}

	mb := NewCreateModelBuilder("m").
		AddEnvironmentEntry("A", "1").
		AddEnvironmentEntry("A", "2")
	c.Check(mb.errs.flatten(), check.HasLen, 1)
	mb.ClearEnvironmentEntries().AddEnvironmentEntry("A", "3")
	c.Check(mb.errs.flatten(), check.HasLen, 0)
	c.Check(mb.req.PrimaryContainer.Environment, check.DeepEquals, map[string]string{"A": "3"})

	tb := NewCreateTuningJobBuilder("tune").
		AddStaticHyperParametersEntry("objective", "reg:linear").
		AddStaticHyperParametersEntry("objective", "binary:logistic").
		ClearStaticHyperParametersEntries().
		AddStaticHyperParametersEntry("objective", "binary:logistic")
	c.Check(tb.errs.flatten(), check.HasLen, 0)
}

func (s *BuilderSuite) TestDuplicateKeptForOtherField(c *check.C) {
	b := NewCreateModelBuilder("m").
		AddEnvironmentEntry("A", "1").
		AddEnvironmentEntry("A", "2")
	b.WithExecutionRoleARN(testRoleARN)
	_, err := b.Build()
	c.Check(errors.Is(err, ErrDuplicateKey), check.Equals, true)
}

func (s *BuilderSuite) TestWithReplacesWholesale(c *check.C) {
	b := validTrainingJobBuilder("job").
		AddHyperParametersEntry("eta", "0.2").
		WithHyperParameters(map[string]string{"eta": "0.5"})
	req, err := b.Build()
	c.Assert(err, check.IsNil)
	c.Check(req.HyperParameters, check.DeepEquals, map[string]string{"eta": "0.5"})
	// A later Add still guards against overwriting.
	_, err = b.AddHyperParametersEntry("eta", "0.6").Build()
	c.Check(errors.Is(err, ErrDuplicateKey), check.Equals, true)
}

func (s *BuilderSuite) TestStaticHyperParametersDuplicate(c *check.C) {
	_, err := NewCreateTuningJobBuilder("tune").
		AddStaticHyperParametersEntry("objective", "reg:linear").
		AddStaticHyperParametersEntry("objective", "binary:logistic").
		Build()
	c.Check(errors.Is(err, ErrDuplicateKey), check.Equals, true)
}

func (s *BuilderSuite) TestAlgorithmBothSet(c *check.C) {
	_, err := NewAlgorithmSpecificationBuilder().
		WithTrainingImage("example/image:latest").
		WithAlgorithmName("my-algorithm").
		WithTrainingInputMode(TrainingInputModeFile).
		Build()
	c.Assert(err, check.NotNil)
	c.Check(errors.Is(err, ErrValidation), check.Equals, true)
	var verr *ValidationError
	c.Assert(errors.As(err, &verr), check.Equals, true)
	c.Check(verr.Field, check.Equals, "TrainingImage")
	c.Check(verr.Constraint, check.Matches, `must not be set together with AlgorithmName`)
}

func (s *BuilderSuite) TestAlgorithmNeitherSet(c *check.C) {
	err := AlgorithmSpecification{TrainingInputMode: TrainingInputModePipe}.Validate()
	c.Check(err, check.ErrorMatches, `TrainingImage: either TrainingImage or AlgorithmName is required`)
}

func (s *BuilderSuite) TestAlgorithmSource(c *check.C) {
	src, ref := TrainingImageAlgorithm("img", TrainingInputModeFile).Source()
	c.Check(src, check.Equals, AlgorithmSourceImage)
	c.Check(ref, check.Equals, "img")
	src, ref = RegisteredAlgorithm("algo", TrainingInputModeFile).Source()
	c.Check(src, check.Equals, AlgorithmSourceRegistered)
	c.Check(ref, check.Equals, "algo")
	src, _ = AlgorithmSpecification{TrainingImage: "a", AlgorithmName: "b"}.Source()
	c.Check(src, check.Equals, AlgorithmSourceAmbiguous)
}

func (s *BuilderSuite) TestBuildReportsEveryViolation(c *check.C) {
	_, err := NewCreateTrainingJobBuilder("-bad-name").
		WithRoleARN("arn:aws:iam::1234:role/x").
		WithResourceConfig(ResourceConfig{InstanceType: "m5.xlarge"}).
		AddHyperParametersEntry("k", "v").
		AddHyperParametersEntry("k", "v").
		Build()
	c.Assert(err, check.FitsTypeOf, ValidationErrors{})
	errs := err.(ValidationErrors)
	fields := map[string]bool{}
	for _, e := range errs {
		if verr, ok := e.(*ValidationError); ok {
			fields[verr.Field] = true
		}
	}
	for _, f := range []string{
		"TrainingJobName",
		"AlgorithmSpecification.TrainingImage",
		"AlgorithmSpecification.TrainingInputMode",
		"RoleArn",
		"OutputDataConfig.S3OutputPath",
		"ResourceConfig.InstanceType",
		"ResourceConfig.InstanceCount",
		"ResourceConfig.VolumeSizeInGB",
		"StoppingCondition.MaxRuntimeInSeconds",
	} {
		c.Check(fields[f], check.Equals, true, check.Commentf("missing %s in %v", f, err))
	}
	c.Check(errors.Is(err, ErrDuplicateKey), check.Equals, true)
	c.Check(errors.Is(err, ErrValidation), check.Equals, true)
}

func (s *BuilderSuite) TestNameConstraints(c *check.C) {
	for _, trial := range []struct {
		kind ResourceKind
		name string
		ok   bool
	}{
		{KindTrainingJob, "a", true},
		{KindTrainingJob, "prod-job-1", true},
		{KindTrainingJob, "a--b", true},
		{KindTrainingJob, "", false},
		{KindTrainingJob, "-a", false},
		{KindTrainingJob, "a-", false},
		{KindTrainingJob, "a_b", false},
		{KindTrainingJob, strings.Repeat("a", 63), true},
		{KindTrainingJob, strings.Repeat("a", 64), false},
		{KindTuningJob, strings.Repeat("a", 32), true},
		{KindTuningJob, strings.Repeat("a", 33), false},
	} {
		err := ValidateName(trial.kind, trial.name)
		c.Check(err == nil, check.Equals, trial.ok, check.Commentf("%s %q: %v", trial.kind, trial.name, err))
	}
}

func (s *BuilderSuite) TestManagedSpotRequiresFlag(c *check.C) {
	_, err := validTrainingJobBuilder("spot").
		WithStoppingCondition(StoppingCondition{MaxRuntimeInSeconds: 3600, MaxWaitTimeInSeconds: 7200}).
		Build()
	c.Check(err, check.ErrorMatches, `StoppingCondition.MaxWaitTimeInSeconds: requires EnableManagedSpotTraining.*`)
	_, err = validTrainingJobBuilder("spot").
		WithStoppingCondition(StoppingCondition{MaxRuntimeInSeconds: 3600, MaxWaitTimeInSeconds: 7200}).
		WithManagedSpotTraining(true).
		Build()
	c.Check(err, check.IsNil)
}

func (s *BuilderSuite) TestHumanTaskConfigRanges(c *check.C) {
	htc := HumanTaskConfig{
		WorkteamARN:                       "arn:aws:sagemaker:us-east-1:123456789012:workteam/private-crowd/team",
		UiConfig:                          UiConfig{UiTemplateS3URI: "s3://bucket/template.liquid"},
		PreHumanTaskLambdaARN:             "arn:aws:lambda:us-east-1:123456789012:function:PRE-BoundingBox",
		TaskTitle:                         "Draw boxes",
		TaskDescription:                   "Draw a box around each car",
		NumberOfHumanWorkersPerDataObject: 10,
		TaskTimeLimitInSeconds:            29,
		TaskAvailabilityLifetimeInSeconds: 864001,
		MaxConcurrentTaskCount:            1001,
		AnnotationConsolidationConfig: AnnotationConsolidationConfig{
			AnnotationConsolidationLambdaARN: "arn:aws:lambda:us-east-1:123456789012:function:ACS-BoundingBox",
		},
	}
	var v validator
	htc.check(&v, "HumanTaskConfig")
	c.Check(v.errs, check.HasLen, 4)
	c.Check(v.err(), check.ErrorMatches, `HumanTaskConfig.NumberOfHumanWorkersPerDataObject: must be between 1 and 9.*`)

	htc.NumberOfHumanWorkersPerDataObject = 9
	htc.TaskTimeLimitInSeconds = 28800
	htc.TaskAvailabilityLifetimeInSeconds = 60
	htc.MaxConcurrentTaskCount = 1000
	v = validator{}
	htc.check(&v, "HumanTaskConfig")
	c.Check(v.err(), check.IsNil)
}

func (s *BuilderSuite) TestModelContainersExclusive(c *check.C) {
	cd := ContainerDefinition{Image: "example/serve:1"}
	_, err := NewCreateModelBuilder("m").
		WithPrimaryContainer(cd).
		AddContainer(cd).
		WithExecutionRoleARN(testRoleARN).
		Build()
	c.Check(err, check.ErrorMatches, `PrimaryContainer: must not be set together with Containers`)

	req, err := NewCreateModelBuilder("m").
		AddEnvironmentEntry("SAGEMAKER_PROGRAM", "serve.py").
		WithExecutionRoleARN(testRoleARN).
		Build()
	c.Check(err, check.ErrorMatches, `PrimaryContainer.Image: either Image or ModelPackageName is required`)
	c.Check(req.ModelName, check.Equals, "")
}

func (s *BuilderSuite) TestNotebookVolumeSize(c *check.C) {
	b := NewCreateNotebookInstanceBuilder("nb").
		WithInstanceType("ml.t3.medium").
		WithRoleARN(testRoleARN)
	for size, ok := range map[int]bool{0: true, 4: false, 5: true, 16384: true, 16385: false} {
		_, err := b.WithVolumeSizeInGB(size).Build()
		c.Check(err == nil, check.Equals, ok, check.Commentf("size %d: %v", size, err))
	}
	_, err := b.WithVolumeSizeInGB(5).WithDirectInternetAccess(Disabled).Build()
	c.Check(err, check.ErrorMatches, `DirectInternetAccess: Disabled requires SubnetId.*`)
	_, err = b.WithNetwork("subnet-0abc", "sg-0def").Build()
	c.Check(err, check.IsNil)
}

func (s *BuilderSuite) TestTags(c *check.C) {
	tags := make([]Tag, MaxTags+1)
	for i := range tags {
		tags[i] = Tag{Key: strings.Repeat("k", i+1)}
	}
	err := CreateEndpointRequest{EndpointName: "e", EndpointConfigName: "ec", Tags: tags}.Validate()
	c.Check(err, check.ErrorMatches, `Tags: must have between 0 and 50 elements.*`)

	err = CreateEndpointRequest{EndpointName: "e", EndpointConfigName: "ec", Tags: []Tag{{Key: "a", Value: "1"}, {Key: "a", Value: "2"}}}.Validate()
	c.Check(errors.Is(err, ErrDuplicateKey), check.Equals, true)

	err = CreateEndpointRequest{EndpointName: "e", EndpointConfigName: "ec", Tags: []Tag{{Key: "", Value: "1"}}}.Validate()
	c.Check(err, check.ErrorMatches, `Tags\[0\].Key: is required`)

	c.Check(TagsFromMap(map[string]string{"b": "2", "a": "1"}), check.DeepEquals, []Tag{{"a", "1"}, {"b", "2"}})
}
