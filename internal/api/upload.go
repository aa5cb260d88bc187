package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
)

// MainModule is the module name the script is uploaded under and declared
// as the entry point.
const MainModule = "worker.js"

// ErrHalfBinding is returned when a KV binding has only one of its two
// fields set. Such a binding is never sent to the remote service.
var ErrHalfBinding = errors.New("KV binding needs both a namespace ID and a variable name")

// KVBinding exposes a KV namespace to a worker under VariableName.
type KVBinding struct {
	NamespaceID  string
	VariableName string
}

// NewKVBinding returns a binding when both values are set and nil when
// neither is. A half populated pair yields ErrHalfBinding.
func NewKVBinding(namespaceID, variableName string) (*KVBinding, error) {
	switch {
	case namespaceID == "" && variableName == "":
		return nil, nil
	case namespaceID == "" || variableName == "":
		return nil, ErrHalfBinding
	}
	return &KVBinding{NamespaceID: namespaceID, VariableName: variableName}, nil
}

func (b *KVBinding) validate() error {
	if b == nil {
		return nil
	}
	if b.NamespaceID == "" || b.VariableName == "" {
		return ErrHalfBinding
	}
	return nil
}

// WorkerDefinition is everything needed to create or update a worker.
type WorkerDefinition struct {
	Name    string
	Script  string
	Binding *KVBinding
}

type bindingMetadata struct {
	Name        string `json:"name"`
	NamespaceID string `json:"namespace_id"`
	Type        string `json:"type"`
}

type scriptMetadata struct {
	MainModule string            `json:"main_module"`
	Type       string            `json:"type"`
	Bindings   []bindingMetadata `json:"bindings"`
}

// encodeUpload builds the multipart body for an ES module worker upload and
// returns it along with its content type.
func encodeUpload(def WorkerDefinition) ([]byte, string, error) {
	if err := def.Binding.validate(); err != nil {
		return nil, "", err
	}

	meta := scriptMetadata{
		MainModule: MainModule,
		Type:       "esm",
		Bindings:   []bindingMetadata{},
	}
	if def.Binding != nil {
		meta.Bindings = append(meta.Bindings, bindingMetadata{
			Name:        def.Binding.VariableName,
			NamespaceID: def.Binding.NamespaceID,
			Type:        "kv_namespace",
		})
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, "", fmt.Errorf("error encoding worker metadata: %w", err)
	}

	buf := &bytes.Buffer{}
	mpw := multipart.NewWriter(buf)

	parts := []struct {
		name        string
		contentType string
		content     []byte
	}{
		{"metadata", "application/json", metaJSON},
		{MainModule, "application/javascript+module", []byte(def.Script)},
	}
	for _, p := range parts {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, p.name, p.name))
		header.Set("Content-Type", p.contentType)

		w, err := mpw.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("error creating %s part: %w", p.name, err)
		}
		if _, err := w.Write(p.content); err != nil {
			return nil, "", fmt.Errorf("error writing %s part: %w", p.name, err)
		}
	}

	if err := mpw.Close(); err != nil {
		return nil, "", fmt.Errorf("error closing multipart body: %w", err)
	}

	return buf.Bytes(), mpw.FormDataContentType(), nil
}
