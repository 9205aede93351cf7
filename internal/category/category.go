package category

// Category describes a feed section and whether posts in it accept
// donations.
type Category struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	EnableDonation bool   `json:"enable_donation"`
	Description    string `json:"description"`
}

// table is the deployment's category configuration. Order is the order the
// navigation renders.
var table = []Category{
	{ID: "projects", Label: "Projects", EnableDonation: true, Description: "Share your project with the community"},
	{ID: "public-goods", Label: "Public Goods", EnableDonation: true, Description: "Public goods and infrastructure projects"},
	{ID: "dapps", Label: "dApps", EnableDonation: true, Description: "Decentralized applications"},
	{ID: "events", Label: "Events", EnableDonation: false, Description: "Community events and meetups"},
	{ID: "research", Label: "Research", EnableDonation: true, Description: "Research and development"},
	{ID: "governance", Label: "Governance", EnableDonation: false, Description: "Governance proposals and discussions"},
	{ID: "tutorials", Label: "Tutorials", EnableDonation: false, Description: "Educational content and guides"},
	{ID: "announcements", Label: "Announcements", EnableDonation: false, Description: "Important updates and announcements"},
	{ID: "discussions", Label: "Discussions", EnableDonation: false, Description: "General discussions"},
	{ID: "nfts", Label: "NFTs", EnableDonation: true, Description: "NFT projects and discussions"},
	{ID: "defi", Label: "DeFi", EnableDonation: true, Description: "Decentralized finance projects"},
	{ID: "dao", Label: "DAO", EnableDonation: true, Description: "Decentralized autonomous organizations"},
	{ID: "gaming", Label: "Gaming", EnableDonation: true, Description: "Web3 gaming projects"},
	{ID: "metaverse", Label: "Metaverse", EnableDonation: true, Description: "Metaverse projects and initiatives"},
	{ID: "infrastructure", Label: "Infrastructure", EnableDonation: true, Description: "Web3 infrastructure projects"},
	{ID: "security", Label: "Security", EnableDonation: false, Description: "Security discussions and updates"},
	{ID: "privacy", Label: "Privacy", EnableDonation: false, Description: "Privacy-focused projects and discussions"},
	{ID: "scaling", Label: "Scaling", EnableDonation: true, Description: "Scaling solutions and projects"},
	{ID: "layer2", Label: "Layer 2", EnableDonation: true, Description: "Layer 2 solutions and projects"},
}

// All returns every category in navigation order.
func All() []Category {
	out := make([]Category, len(table))
	copy(out, table)
	return out
}

// DonationEnabled reports whether posts in the category accept donations.
// Unknown categories do not.
func DonationEnabled(id string) bool {
	for _, c := range table {
		if c.ID == id {
			return c.EnableDonation
		}
	}
	return false
}
