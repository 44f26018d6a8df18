package marketing

type HeroSlide struct {
	Image       string `json:"image"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ButtonText  string `json:"button_text"`
}

type Testimonial struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Image   string `json:"image"`
}

type Featured struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// CatalogItem is an entry of the public product catalogue. Prices are
// display strings; the catalogue is not tied to the stock service.
type CatalogItem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

var heroSlides = []HeroSlide{
	{
		Image:       "https://placehold.co/1920x1080/FFA500/FFFFFF?text=Innovation",
		Title:       "Innovate. Inspire. Impact.",
		Description: "We are a passionate team dedicated to crafting exceptional solutions that drive growth and create lasting value.",
		ButtonText:  "Learn More",
	},
	{
		Image:       "https://placehold.co/1920x1080/FF8C00/FFFFFF?text=Creativity",
		Title:       "Unleashing Creativity",
		Description: "Discover how our unique approach fosters groundbreaking ideas and transforms visions into reality.",
		ButtonText:  "Our Work",
	},
	{
		Image:       "https://placehold.co/1920x1080/FF7F50/FFFFFF?text=Future",
		Title:       "Building the Future Together",
		Description: "Join us on a journey to redefine possibilities and build a sustainable, impactful future for everyone.",
		ButtonText:  "Get Started",
	},
}

var testimonials = []Testimonial{
	{"John Doe", "CEO at TechCorp", "This company exceeded our expectations in every way. A fantastic partner!", "https://placehold.co/400x400/D1D5DB/4B5563?text=John+Doe"},
	{"Jane Smith", "Marketing Director at Brandify", "Working with them was a game-changer for our brand. Highly recommend their services!", "https://placehold.co/400x400/D1D5DB/4B5563?text=Jane+Smith"},
	{"Albert Flores", "Web Designer at Watt Design", "Top-notch services and a strong track record in the industry.", "https://placehold.co/400x400/D1D5DB/4B5563?text=Albert+Flores"},
	{"Sarah Lee", "Lead Developer at CodeFlow", "Their expertise and collaborative approach made our complex project a smooth journey.", "https://placehold.co/400x400/D1D5DB/4B5563?text=Sarah+Lee"},
	{"Michael Brown", "Product Manager", "Responsive and quick to adapt to our evolving needs. A pleasure to work with!", "https://placehold.co/400x400/D1D5DB/4B5563?text=Michael+Brown"},
	{"Emily White", "Creative Lead", "The creative solutions they delivered perfectly captured our brand's essence.", "https://placehold.co/400x400/D1D5DB/4B5563?text=Emily+White"},
}

var gallery = []string{
	"/images/enku_placeholder.png",
	"/images/prodact_placeholder.jpg",
	"/images/prodact_placeholder2.jpg",
}

var featured = []Featured{
	{1, "Wall Art", "/images/prodact_placeholder.jpg", "Beautifully crafted basket made by local artisans."},
	{2, "Siphon coffee maker", "/images/prodact_placeholder3.webp", "Freshly roasted coffee from Ethiopian highlands."},
	{3, "Neon light", "/images/prodact_placeholder2.jpg", "Comfortable, handmade sandals for everyday wear."},
}

var catalog = []CatalogItem{
	{1, "Enku Gebeya product 1", "$249.99", "A sleek smartwatch with health tracking, long battery life and smartphone integration.", "https://placehold.co/600x400/FFA500/FFFFFF?text=Enku+Gebeya+photo+1"},
	{2, "Enku Gebeya product 2", "$199.99", "Comfortable over-ear headphones with noise cancellation and crystal-clear audio.", "https://placehold.co/600x400/FFA500/FFFFFF?text=Enku+Gebeya+photo+2"},
	{3, "Enku Gebeya product 3", "$79.99", "A compact, durable Bluetooth speaker with rich bass, perfect for outdoor adventures.", "https://placehold.co/600x400/FFA500/FFFFFF?text=Enku+Gebeya+photo+3"},
	{4, "Enku Gebeya product 4", "$59.99", "An ergonomic gaming mouse with customizable lighting and programmable buttons.", "https://placehold.co/600x400/FFA500/FFFFFF?text=Enku+Gebeya+photo+4"},
	{5, "Enku Gebeya product 5", "$129.99", "Control all your smart devices from one central hub.", "https://placehold.co/600x400/FFA500/FFFFFF?text=Enku+Gebeya+photo+5"},
	{6, "Enku Gebeya product 6", "$349.99", "An office chair designed for comfort and support during long working hours.", "https://placehold.co/600x400/FFA500/FFFFFF?text=Enku+Gebeya+photo+6"},
	{7, "Enku Gebeya product 7", "$499.99", "A 4K Ultra HD monitor for gaming, graphic design and entertainment.", "https://placehold.co/600x400/FFA500/FFFFFF?text=Enku+Gebeya+photo+7"},
	{8, "Enku Gebeya product 8", "$119.99", "A responsive mechanical keyboard with tactile feedback and backlighting.", "https://placehold.co/600x400/FFA500/FFFFFF?text=Enku+Gebeya+photo+8"},
	{9, "Enku Gebeya product 9", "$99.99", "A fast 1TB portable solid-state drive for quick transfers.", "https://placehold.co/600x400/FFA500/FFFFFF?text=Enku+Gebeya+photo+9"},
	{10, "Enku Gebeya product 10", "$299.99", "A smart robot vacuum with intelligent navigation and app control.", "https://placehold.co/600x400/FFA500/FFFFFF?text=Enku+Gebeya+photo+10"},
}
