// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"

	"rivaas.dev/structive/structiveerr"
)

// Format names a manifest encoding, mirroring the teacher's per-format codec
// dispatch table (one decode func per supported wire format).
type Format string

const (
	FormatYAML     Format = "yaml"
	FormatTOML     Format = "toml"
	FormatMsgpack  Format = "msgpack"
	FormatProtobuf Format = "protobuf"
)

type manifest struct {
	Components []Descriptor `yaml:"components" toml:"components" msgpack:"components"`
}

// decoders dispatches a Format to the unmarshal func that reads it into a
// manifest, the same format -> func table shape the teacher's codec
// binding package used for request bodies.
var decoders = map[Format]func([]byte, *manifest) error{
	FormatYAML: func(b []byte, m *manifest) error { return yaml.Unmarshal(b, m) },
	FormatTOML: func(b []byte, m *manifest) error { return toml.Unmarshal(b, m) },
	FormatMsgpack: func(b []byte, m *manifest) error {
		return msgpack.Unmarshal(b, m)
	},
	FormatProtobuf: decodeProtobufManifest,
}

// LoadManifest decodes data as a component manifest in the given format and
// registers every Descriptor it names.
func LoadManifest(r *Registry, format Format, data []byte) error {
	decode, ok := decoders[format]
	if !ok {
		return structiveerr.Raise(structiveerr.ErrREG503, map[string]any{"format": string(format)})
	}
	var m manifest
	if err := decode(data, &m); err != nil {
		return err
	}
	return r.LoadAll(m.Components)
}

// decodeProtobufManifest reads data as a protobuf-wire-encoded
// google.protobuf.Struct (structpb) rather than a generated message type:
// the component manifest schema has no .proto source of its own, so this
// uses protobuf's schemaless document type the way a host might ship a
// manifest alongside other protobuf-encoded config without a dedicated
// codegen step.
func decodeProtobufManifest(data []byte, m *manifest) error {
	var doc structpb.Struct
	if err := proto.Unmarshal(data, &doc); err != nil {
		return err
	}
	components := doc.Fields["components"].GetListValue()
	if components == nil {
		return nil
	}
	for _, v := range components.Values {
		fields := v.GetStructValue().GetFields()
		if fields == nil {
			continue
		}
		m.Components = append(m.Components, Descriptor{
			ID:         int(fields["id"].GetNumberValue()),
			Tag:        fields["tag"].GetStringValue(),
			TemplateID: int(fields["templateId"].GetNumberValue()),
			CSSID:      int(fields["cssId"].GetNumberValue()),
			StateType:  fields["stateType"].GetStringValue(),
		})
	}
	return nil
}
