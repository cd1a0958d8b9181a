package registry

import (
	"fmt"
	"strconv"

	"github.com/Dan9191/debt-terms/internal/models"
	"github.com/beevik/etree"
)

// LoadManifest reads a deployment manifest file into a registry.
func LoadManifest(path string) (*Memory, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return fromDocument(doc)
}

// ParseManifest reads a deployment manifest of the form
//
//	<deployment>
//	  <contracts>
//	    <contract name="SimpleInterestTermsContract" address="0x..."/>
//	  </contracts>
//	  <tokens>
//	    <token index="0" symbol="REP" address="0x..." name="Augur"/>
//	  </tokens>
//	</deployment>
func ParseManifest(data []byte) (*Memory, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return fromDocument(doc)
}

func fromDocument(doc *etree.Document) (*Memory, error) {
	root := doc.SelectElement("deployment")
	if root == nil {
		return nil, fmt.Errorf("manifest has no deployment element")
	}

	reg := NewMemory()
	for _, el := range root.FindElements("./contracts/contract") {
		name := el.SelectAttrValue("name", "")
		if name == "" {
			return nil, fmt.Errorf("contract element without a name")
		}
		if err := reg.SetContract(name, el.SelectAttrValue("address", "")); err != nil {
			return nil, err
		}
	}

	for _, el := range root.FindElements("./tokens/token") {
		index, err := strconv.Atoi(el.SelectAttrValue("index", ""))
		if err != nil {
			return nil, fmt.Errorf("token %s: invalid index: %w", el.SelectAttrValue("symbol", "?"), err)
		}
		token := models.Token{
			Index:   index,
			Symbol:  el.SelectAttrValue("symbol", ""),
			Address: el.SelectAttrValue("address", ""),
			Name:    el.SelectAttrValue("name", ""),
		}
		if err := reg.AddToken(token); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
