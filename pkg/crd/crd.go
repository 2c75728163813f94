// Package crd builds CustomResourceDefinition manifests for the resources the
// operator watches.
package crd

import (
	"fmt"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"
)

// Options describes a custom resource.
type Options struct {
	Group       string
	Version     string
	Kind        string
	Plural      string
	Singular    string
	ListKind    string
	ShortNames  []string
	Annotations map[string]string
	// Schema of the object. A status property is added.
	Schema apiextensionsv1.JSONSchemaProps
	// Outputs are string fields under status, each also shown as a printer column.
	Outputs []string
}

// New builds a namespaced CRD with a status sub-resource and Ready/Status
// printer columns reading the first status condition.
func New(opts Options) (*apiextensionsv1.CustomResourceDefinition, error) {
	if opts.Group == "" || opts.Version == "" || opts.Kind == "" || opts.Plural == "" {
		return nil, fmt.Errorf("group, version, kind and plural are required")
	}
	if opts.Schema.Type == "" {
		return nil, fmt.Errorf("schema is required")
	}

	status := conditionsSchema()
	columns := []apiextensionsv1.CustomResourceColumnDefinition{
		{
			Name:        "Ready",
			Type:        "string",
			Description: "Is resource ready",
			JSONPath:    ".status.conditions[0].status",
		},
		{
			Name:        "Status",
			Type:        "string",
			Description: "The status of the resource",
			JSONPath:    ".status.conditions[0].message",
		},
	}

	for _, o := range opts.Outputs {
		status.Properties[o] = apiextensionsv1.JSONSchemaProps{Type: "string"}
		columns = append(columns, apiextensionsv1.CustomResourceColumnDefinition{
			Name:        o,
			Type:        "string",
			Description: o,
			JSONPath:    ".status." + o,
		})
	}

	schema := *opts.Schema.DeepCopy()
	if schema.Properties == nil {
		schema.Properties = map[string]apiextensionsv1.JSONSchemaProps{}
	}
	// metadata is implicit
	delete(schema.Properties, "metadata")
	schema.Properties["status"] = status

	return &apiextensionsv1.CustomResourceDefinition{
		TypeMeta: metav1.TypeMeta{
			APIVersion: apiextensionsv1.SchemeGroupVersion.String(),
			Kind:       "CustomResourceDefinition",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:        opts.Plural + "." + opts.Group,
			Annotations: opts.Annotations,
		},
		Spec: apiextensionsv1.CustomResourceDefinitionSpec{
			Group: opts.Group,
			Names: apiextensionsv1.CustomResourceDefinitionNames{
				Kind:       opts.Kind,
				ListKind:   opts.ListKind,
				Plural:     opts.Plural,
				Singular:   opts.Singular,
				ShortNames: opts.ShortNames,
			},
			Scope: apiextensionsv1.NamespaceScoped,
			Versions: []apiextensionsv1.CustomResourceDefinitionVersion{
				{
					Name:    opts.Version,
					Served:  true,
					Storage: true,
					Subresources: &apiextensionsv1.CustomResourceSubresources{
						Status: &apiextensionsv1.CustomResourceSubresourceStatus{},
					},
					Schema: &apiextensionsv1.CustomResourceValidation{
						OpenAPIV3Schema: &schema,
					},
					AdditionalPrinterColumns: columns,
				},
			},
		},
	}, nil
}

func conditionsSchema() apiextensionsv1.JSONSchemaProps {
	return apiextensionsv1.JSONSchemaProps{
		Type: "object",
		Properties: map[string]apiextensionsv1.JSONSchemaProps{
			"conditions": {
				Type: "array",
				Items: &apiextensionsv1.JSONSchemaPropsOrArray{
					Schema: &apiextensionsv1.JSONSchemaProps{
						Type: "object",
						Properties: map[string]apiextensionsv1.JSONSchemaProps{
							"type":               {Type: "string"},
							"status":             {Type: "string"},
							"lastTransitionTime": {Type: "string", Format: "date-time"},
							"lastProbeTime":      {Type: "string", Format: "date-time"},
							"message":            {Type: "string"},
						},
						Required: []string{"type", "status", "lastTransitionTime"},
					},
				},
			},
		},
	}
}

// GitContent returns the CRD of wingcloud.com/v1 GitContent.
func GitContent() *apiextensionsv1.CustomResourceDefinition {
	crd, err := New(Options{
		Group:    "wingcloud.com",
		Version:  "v1",
		Kind:     "GitContent",
		Plural:   "gitcontents",
		Singular: "gitcontent",
		ListKind: "GitContentList",
		Schema: apiextensionsv1.JSONSchemaProps{
			Type: "object",
			Properties: map[string]apiextensionsv1.JSONSchemaProps{
				"spec": {
					Type:     "object",
					Required: []string{"owner", "name", "files"},
					Properties: map[string]apiextensionsv1.JSONSchemaProps{
						"owner": {Type: "string", Description: "Repository owner (user or organization)"},
						"name":  {Type: "string", Description: "Repository name"},
						"files": {
							Type: "array",
							Items: &apiextensionsv1.JSONSchemaPropsOrArray{
								Schema: &apiextensionsv1.JSONSchemaProps{
									Type:     "object",
									Required: []string{"path", "content"},
									Properties: map[string]apiextensionsv1.JSONSchemaProps{
										"path":    {Type: "string", Description: "Path relative to the repository root"},
										"content": {Type: "string"},
										"readOnly": {
											Type:        "boolean",
											Description: "When true the file is owned by the operator and drift is overwritten; when false the file is only created if missing",
										},
									},
								},
							},
						},
					},
				},
			},
		},
	})
	if err != nil {
		panic(err)
	}
	return crd
}

// Marshal renders crd as YAML.
func Marshal(crd *apiextensionsv1.CustomResourceDefinition) ([]byte, error) {
	data, err := yaml.Marshal(crd)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal CustomResourceDefinition: %w", err)
	}
	return data, nil
}
