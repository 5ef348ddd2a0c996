// internal/edgar/form4.go
package edgar

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// OwnershipDocument is the parsed Form 4 XML a reporting owner files for
// insider transactions. Most leaf fields on the wire are wrapped in a
// <value> element.
type OwnershipDocument struct {
	XMLName         xml.Name         `xml:"ownershipDocument"`
	PeriodOfReport  string           `xml:"periodOfReport"`
	Issuer          Issuer           `xml:"issuer"`
	ReportingOwners []ReportingOwner `xml:"reportingOwner"`
	NonDerivative   struct {
		Transactions []NonDerivativeTransaction `xml:"nonDerivativeTransaction"`
	} `xml:"nonDerivativeTable"`
}

type Issuer struct {
	CIK           string `xml:"issuerCik"`
	Name          string `xml:"issuerName"`
	TradingSymbol string `xml:"issuerTradingSymbol"`
}

type ReportingOwner struct {
	CIK          string            `xml:"reportingOwnerId>rptOwnerCik"`
	Name         string            `xml:"reportingOwnerId>rptOwnerName"`
	Relationship OwnerRelationship `xml:"reportingOwnerRelationship"`
}

// OwnerRelationship flags arrive as "1"/"0" or "true"/"false" depending
// on the filer software, so they stay strings on the wire.
type OwnerRelationship struct {
	IsDirector        string `xml:"isDirector"`
	IsOfficer         string `xml:"isOfficer"`
	IsTenPercentOwner string `xml:"isTenPercentOwner"`
	IsOther           string `xml:"isOther"`
	OfficerTitle      string `xml:"officerTitle"`
}

type NonDerivativeTransaction struct {
	SecurityTitle     string  `xml:"securityTitle>value"`
	Date              string  `xml:"transactionDate>value"`
	Code              string  `xml:"transactionCoding>transactionCode"`
	Shares            float64 `xml:"transactionAmounts>transactionShares>value"`
	PricePerShare     float64 `xml:"transactionAmounts>transactionPricePerShare>value"`
	AcquiredDisposed  string  `xml:"transactionAmounts>transactionAcquiredDisposedCode>value"`
	SharesOwnedAfter  float64 `xml:"postTransactionAmounts>sharesOwnedFollowingTransaction>value"`
	DirectOrIndirect  string  `xml:"ownershipNature>directOrIndirectOwnership>value"`
	NatureOfOwnership string  `xml:"ownershipNature>natureOfOwnership>value"`
}

// ParseForm4 decodes a Form 4 ownership document.
func ParseForm4(data []byte) (*OwnershipDocument, error) {
	var doc OwnershipDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse form 4: %w", err)
	}
	return &doc, nil
}

// OwnerName returns the first reporting owner's name.
func (d *OwnershipDocument) OwnerName() string {
	if len(d.ReportingOwners) == 0 {
		return ""
	}
	return d.ReportingOwners[0].Name
}

// OwnerRelationship summarizes the first reporting owner's relationship
// to the issuer, preferring the officer title when present.
func (d *OwnershipDocument) OwnerRelationship() string {
	if len(d.ReportingOwners) == 0 {
		return ""
	}
	rel := d.ReportingOwners[0].Relationship

	var parts []string
	if xmlFlag(rel.IsDirector) {
		parts = append(parts, "Director")
	}
	if xmlFlag(rel.IsOfficer) {
		if title := strings.TrimSpace(rel.OfficerTitle); title != "" {
			parts = append(parts, title)
		} else {
			parts = append(parts, "Officer")
		}
	}
	if xmlFlag(rel.IsTenPercentOwner) {
		parts = append(parts, "10% Owner")
	}
	if len(parts) == 0 && xmlFlag(rel.IsOther) {
		parts = append(parts, "Other")
	}
	return strings.Join(parts, ", ")
}

// TransactionLabel maps a Form 4 transaction code to a readable action.
func TransactionLabel(code, acquiredDisposed string) string {
	switch strings.ToUpper(code) {
	case "P":
		return "Purchase"
	case "S":
		return "Sale"
	case "A":
		return "Grant"
	case "M":
		return "Option Exercise"
	case "G":
		return "Gift"
	case "F":
		return "Tax Withholding"
	}
	switch strings.ToUpper(acquiredDisposed) {
	case "A":
		return "Acquisition"
	case "D":
		return "Disposition"
	}
	return code
}

func xmlFlag(s string) bool {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "1", "true":
		return true
	}
	return false
}
