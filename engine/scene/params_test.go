package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/scena/engine/core"
	"github.com/spaghettifunk/scena/engine/math"
)

func TestParamsForExposesOrderedDescriptors(t *testing.T) {
	specs := ParamsFor(NodeTypeCamera)
	require.NotEmpty(t, specs)

	names := make([]string, len(specs))
	for i, ps := range specs {
		names[i] = ps.Name
	}
	assert.Equal(t, []string{
		"child", "eye", "center", "up", "perspective",
		"eye_transform", "center_transform", "up_transform", "fov_animkf",
	}, names)
}

func TestParamsForUnknownTypeIsEmpty(t *testing.T) {
	assert.Empty(t, ParamsFor(NodeType(200)))
}

func TestMissingRequiredChildIsSchemaViolation(t *testing.T) {
	camera := NewCamera(nil)
	err := InitNode(camera, testContext())
	assert.ErrorIs(t, err, core.ErrSchemaViolation)
	assert.Equal(t, NodeStateUninitialized, camera.State)
}

func TestTransformRequiresChild(t *testing.T) {
	tr := NewTranslate(nil, math.NewVec3One())
	err := InitNode(tr, testContext())
	assert.ErrorIs(t, err, core.ErrSchemaViolation)
}

func TestNilListEntryIsSchemaViolation(t *testing.T) {
	group := NewGroup(NewIdentity(), nil)
	err := InitNode(group, testContext())
	assert.ErrorIs(t, err, core.ErrSchemaViolation)
}

func TestNodeTypeWhitelist(t *testing.T) {
	var unrestricted ParamSpec
	assert.True(t, unrestricted.allowsNodeType(NodeTypeFill))

	restricted := ParamSpec{NodeTypes: []NodeType{NodeTypeTransform}}
	assert.True(t, restricted.allowsNodeType(NodeTypeTransform))
	assert.False(t, restricted.allowsNodeType(NodeTypeFill))
}

func TestCameraDefaultsMatchDescriptorTable(t *testing.T) {
	camera := NewCamera(NewIdentity())
	for _, ps := range ParamsFor(NodeTypeCamera) {
		if ps.Default == nil || ps.Value == nil {
			continue
		}
		assert.Equal(t, ps.Default, ps.Value(camera), "default of %s", ps.Name)
	}
}
