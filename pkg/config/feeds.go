package config

// defaultFeeds is the built-in list of Nepali news sources
func defaultFeeds() []Feed {
	return []Feed{
		{Name: "Baahrakhari", URL: "https://baahrakhari.com/feed"},
		{Name: "OnlineKhabar", URL: "https://www.onlinekhabar.com/feed", FallbackImage: "https://www.ashesh.org/app/news/logo/onlinekhabar.jpg"},
		{Name: "Ratopati", URL: "https://www.ratopati.com/feed"},
		{Name: "Setopati", URL: "https://www.setopati.com/feed", FallbackImage: "https://www.ashesh.org/app/news/logo/setopati.jpg"},
		{Name: "ThahaKhabar", URL: "https://www.thahakhabar.com/feed"},
		{Name: "NepalSamaya", URL: "https://nepalsamaya.com/feed"},
		{Name: "Rajdhani", URL: "https://rajdhanidaily.com/feed"},
		{Name: "NewsOfNepal", URL: "https://newsofnepal.com/feed"},
		{Name: "BizMandu", URL: "https://bizmandu.com/feed", FallbackImage: "https://www.ashesh.org/app/news/logo/bizmandu.jpg"},
		{Name: "Techpana", URL: "https://techpana.com/feed", FallbackImage: "https://www.ashesh.org/app/news/logo/techpana.jpg"},
		{Name: "Artha Dabali", URL: "https://www.arthadabali.com/feed", FallbackImage: "https://www.arthadabali.com/wp-content/uploads/2020/01/logo.png"},
		{Name: "Makalu Khabar", URL: "https://www.makalukhabar.com/feed", FallbackImage: "https://www.makalukhabar.com/wp-content/uploads/2021/03/logo.png"},
		{Name: "SwasthyaKhabar", URL: "https://swasthyakhabar.com/feed"},
		{Name: "Nagarik News", URL: "https://nagariknews.nagariknetwork.com/feed", FallbackImage: "https://staticcdn.nagariknetwork.com/images/default-image.png"},
		{Name: "BBC Nepali", URL: "https://www.bbc.com/nepali/index.xml", FallbackImage: "https://news.bbcimg.co.uk/nol/shared/img/bbc_news_120x60.gif"},
	}
}
