package osm

import (
	"encoding/xml"
	"fmt"
	"sort"
)

type osmDocument struct {
	XMLName   xml.Name      `xml:"osm"`
	Changeset *changesetXML `xml:"changeset,omitempty"`
	Node      *nodeXML      `xml:"node,omitempty"`
}

type changesetXML struct {
	Tags []tagXML `xml:"tag"`
}

type nodeXML struct {
	ID        int64    `xml:"id,attr,omitempty"`
	Changeset int64    `xml:"changeset,attr"`
	Version   int64    `xml:"version,attr,omitempty"`
	Lat       string   `xml:"lat,attr"`
	Lon       string   `xml:"lon,attr"`
	Tags      []tagXML `xml:"tag"`
}

type tagXML struct {
	K string `xml:"k,attr"`
	V string `xml:"v,attr"`
}

func sortedTags(tags map[string]string) []tagXML {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]tagXML, 0, len(keys))
	for _, k := range keys {
		out = append(out, tagXML{K: k, V: tags[k]})
	}
	return out
}

func marshalDocument(doc osmDocument) ([]byte, error) {
	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal osm document: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

func changesetPayload(comment, createdBy string) ([]byte, error) {
	tags := map[string]string{"comment": comment}
	if createdBy != "" {
		tags["created_by"] = createdBy
	}
	return marshalDocument(osmDocument{Changeset: &changesetXML{Tags: sortedTags(tags)}})
}

func nodePayload(changesetID int64, node *Node) ([]byte, error) {
	return marshalDocument(osmDocument{Node: &nodeXML{
		ID:        node.ID,
		Changeset: changesetID,
		Version:   node.Version,
		Lat:       formatCoord(node.Lat),
		Lon:       formatCoord(node.Lon),
		Tags:      sortedTags(node.Tags),
	}})
}
